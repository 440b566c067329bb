package utils

import (
	"fmt"
	"math/rand"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "霞", "飞", "玲", "超",
	"华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, py := range pinyinArray {
		length := rand.Intn(len(py)) + 1
		username += py[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

var defaultRoles = []string{"前台", "造型师", "助理", "店长"}

func GenerateRandomStaff(emailDomainName string) *domain.StaffMember {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)

	return &domain.StaffMember{
		Username:    username,
		FullName:    fullName,
		Email:       username + "@" + emailDomainName,
		DefaultRole: defaultRoles[rand.Intn(len(defaultRoles))],
		IsActive:    true,
	}
}

// GenerateRandomDefaultSchedule 生成一个随机的默认班表模板，
// 周一到周五必有班，周六周日各有一半概率休息
func GenerateRandomDefaultSchedule(staffID int64, effectiveFrom string, role string) *domain.DefaultSchedule {
	ds := &domain.DefaultSchedule{
		StaffID:       staffID,
		EffectiveFrom: effectiveFrom,
	}

	for weekday := 0; weekday < 7; weekday++ {
		isWeekend := weekday == 0 || weekday == 6
		if isWeekend && rand.Intn(2) == 0 {
			continue
		}

		startHour := rand.Intn(3) + 8 // 8~10 点上班
		workHours := rand.Intn(3) + 7 // 工作 7~9 小时

		ds.Days[weekday] = &domain.DayTemplate{
			StartTime: fmt.Sprintf("%02d:00:00", startHour),
			EndTime:   fmt.Sprintf("%02d:00:00", startHour+workHours),
			Role:      role,
		}
	}

	return ds
}

func GenerateRandomOverrideReason() domain.OverrideReason {
	reasons := []domain.OverrideReason{
		domain.OverrideReasonTimeChange,
		domain.OverrideReasonPTO,
		domain.OverrideReasonSick,
		domain.OverrideReasonSwap,
		domain.OverrideReasonTraining,
	}
	return reasons[rand.Intn(len(reasons))]
}
