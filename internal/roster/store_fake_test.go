package roster

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
)

// fakeStore 是 repository 的内存实现，测试用。
// 错误语义与真实实现保持一致：查不到返回 *domain.NotFoundError，
// 唯一约束或版本号冲突返回 *domain.ConflictError。
type fakeStore struct {
	mu     sync.Mutex
	nextID int64

	staff     map[int64]*domain.StaffMember
	schedules []*domain.DefaultSchedule
	shifts    map[string]*domain.ShiftRecord // key 为 staffID_date
	pubs      map[string]*domain.WeekPublication

	// insertFailAfter > 0 时，第 insertFailAfter+1 次 InsertShiftSkipConflict
	// 会返回存储错误，用于测试克隆中途失败
	insertFailAfter int
	insertCalls     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		staff:  make(map[int64]*domain.StaffMember),
		shifts: make(map[string]*domain.ShiftRecord),
		pubs:   make(map[string]*domain.WeekPublication),
	}
}

func slotKey(staffID int64, date string) string {
	return fmt.Sprintf("%d_%s", staffID, date)
}

func (f *fakeStore) genID() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) addStaff(id int64, fullName string, isActive bool) *domain.StaffMember {
	f.mu.Lock()
	defer f.mu.Unlock()

	sm := &domain.StaffMember{
		ID:       id,
		Username: fmt.Sprintf("staff%d", id),
		FullName: fullName,
		Email:    fmt.Sprintf("staff%d@example.com", id),
		IsActive: isActive,
	}
	f.staff[id] = sm
	return sm
}

func (f *fakeStore) GetAllStaff() ([]*domain.StaffMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	staff := make([]*domain.StaffMember, 0, len(f.staff))
	for _, sm := range f.staff {
		staff = append(staff, sm)
	}
	sort.Slice(staff, func(i, j int) bool { return staff[i].ID < staff[j].ID })
	return staff, nil
}

func (f *fakeStore) GetStaffByID(id int64) (*domain.StaffMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sm, ok := f.staff[id]
	if !ok {
		return nil, domain.NewNotFoundError("员工 %d 不存在", id)
	}
	return sm, nil
}

func (f *fakeStore) CreateDefaultSchedule(ds *domain.DefaultSchedule) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.schedules {
		if existing.StaffID == ds.StaffID && existing.EffectiveFrom == ds.EffectiveFrom {
			return domain.NewConflictError("该员工在 %s 已经有默认班表", ds.EffectiveFrom)
		}
	}

	ds.ID = f.genID()
	ds.Version = 1
	ds.CreatedAt = time.Now()
	f.schedules = append(f.schedules, ds)
	return nil
}

func (f *fakeStore) GetEffectiveDefaultSchedule(staffID int64, date string) (*domain.DefaultSchedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// 日期是 ISO 格式，字符串比较就是日期比较
	var best *domain.DefaultSchedule
	for _, ds := range f.schedules {
		if ds.StaffID != staffID || ds.EffectiveFrom > date {
			continue
		}
		if best == nil || ds.EffectiveFrom > best.EffectiveFrom {
			best = ds
		}
	}

	if best == nil {
		return nil, domain.NewNotFoundError("员工 %d 在 %s 没有生效的默认班表", staffID, date)
	}
	return best, nil
}

func (f *fakeStore) GetDefaultSchedulesByStaff(staffID int64) ([]*domain.DefaultSchedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	schedules := make([]*domain.DefaultSchedule, 0)
	for _, ds := range f.schedules {
		if ds.StaffID == staffID {
			schedules = append(schedules, ds)
		}
	}
	sort.Slice(schedules, func(i, j int) bool { return schedules[i].EffectiveFrom > schedules[j].EffectiveFrom })
	return schedules, nil
}

func (f *fakeStore) GetShiftByStaffAndDate(staffID int64, date string) (*domain.ShiftRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sr, ok := f.shifts[slotKey(staffID, date)]
	if !ok {
		return nil, domain.NewNotFoundError("员工 %d 在 %s 没有班次记录", staffID, date)
	}

	cp := *sr
	return &cp, nil
}

func (f *fakeStore) GetShiftsByDateRange(from string, to string) ([]*domain.ShiftRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	shifts := make([]*domain.ShiftRecord, 0)
	for _, sr := range f.shifts {
		if sr.Date < from || sr.Date > to {
			continue
		}
		cp := *sr
		shifts = append(shifts, &cp)
	}
	sort.Slice(shifts, func(i, j int) bool {
		if shifts[i].Date != shifts[j].Date {
			return shifts[i].Date < shifts[j].Date
		}
		return shifts[i].StaffID < shifts[j].StaffID
	})
	return shifts, nil
}

func (f *fakeStore) CreateShift(sr *domain.ShiftRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := slotKey(sr.StaffID, sr.Date)
	if _, ok := f.shifts[key]; ok {
		return domain.NewConflictError("员工 %d 在 %s 已经有班次记录", sr.StaffID, sr.Date)
	}

	sr.ID = f.genID()
	sr.Version = 1
	sr.CreatedAt = time.Now()

	cp := *sr
	f.shifts[key] = &cp
	return nil
}

func (f *fakeStore) UpdateShift(sr *domain.ShiftRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, ok := f.shifts[slotKey(sr.StaffID, sr.Date)]
	if !ok || stored.ID != sr.ID || stored.Version != sr.Version {
		return domain.NewConflictError("班次记录已被其他操作修改，请重新读取后重试")
	}

	sr.Version++
	cp := *sr
	f.shifts[slotKey(sr.StaffID, sr.Date)] = &cp
	return nil
}

func (f *fakeStore) DeleteShift(id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for key, sr := range f.shifts {
		if sr.ID == id {
			delete(f.shifts, key)
			return nil
		}
	}
	return domain.NewNotFoundError("班次记录 %d 不存在", id)
}

func (f *fakeStore) MoveShift(sr *domain.ShiftRecord, newStaffID int64, newDate string, overwrite bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	newKey := slotKey(newStaffID, newDate)
	if target, ok := f.shifts[newKey]; ok && target.ID != sr.ID {
		if !overwrite {
			return domain.NewConflictError("目标格子已经有班次记录")
		}
		delete(f.shifts, newKey)
	}

	oldKey := slotKey(sr.StaffID, sr.Date)
	stored, ok := f.shifts[oldKey]
	if !ok || stored.ID != sr.ID || stored.Version != sr.Version {
		return domain.NewConflictError("班次记录已被其他操作修改，请重新读取后重试")
	}
	delete(f.shifts, oldKey)

	sr.StaffID = newStaffID
	sr.Date = newDate
	sr.Version++

	cp := *sr
	f.shifts[newKey] = &cp
	return nil
}

func (f *fakeStore) ReplaceShift(sr *domain.ShiftRecord, oldID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for key, existing := range f.shifts {
		if existing.ID == oldID {
			delete(f.shifts, key)
		}
	}

	key := slotKey(sr.StaffID, sr.Date)
	if _, ok := f.shifts[key]; ok {
		return domain.NewConflictError("目标格子已经有班次记录")
	}

	sr.ID = f.genID()
	sr.Version = 1
	sr.CreatedAt = time.Now()

	cp := *sr
	f.shifts[key] = &cp
	return nil
}

func (f *fakeStore) InsertShiftSkipConflict(sr *domain.ShiftRecord) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.insertCalls++
	if f.insertFailAfter > 0 && f.insertCalls > f.insertFailAfter {
		return false, fmt.Errorf("存储错误")
	}

	key := slotKey(sr.StaffID, sr.Date)
	if _, ok := f.shifts[key]; ok {
		return false, nil
	}

	sr.ID = f.genID()
	sr.Version = 1
	sr.CreatedAt = time.Now()

	cp := *sr
	f.shifts[key] = &cp
	return true, nil
}

func (f *fakeStore) UpsertWeekPublication(wp *domain.WeekPublication) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if existing, ok := f.pubs[wp.WeekStart]; ok {
		existing.PublishedAt = time.Now()
		existing.StaffCount = wp.StaffCount
		existing.Version++
		*wp = *existing
		return nil
	}

	wp.ID = f.genID()
	wp.PublishedAt = time.Now()
	wp.Version = 1

	cp := *wp
	f.pubs[wp.WeekStart] = &cp
	return nil
}

func (f *fakeStore) GetWeekPublication(weekStart string) (*domain.WeekPublication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	wp, ok := f.pubs[weekStart]
	if !ok {
		return nil, domain.NewNotFoundError("%s 这一周还没有发布过", weekStart)
	}

	cp := *wp
	return &cp, nil
}

// fakeNotifier 记录收到的通知消息
type fakeNotifier struct {
	mu       sync.Mutex
	err      error
	messages []*domain.NotifyMessage
}

func (f *fakeNotifier) NotifyPublished(msg *domain.NotifyMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msg)
	return nil
}

// fakeCache 是 WeekCache 的内存实现，记录命中和失效次数
type fakeCache struct {
	mu            sync.Mutex
	data          map[string][]*domain.EffectiveShift
	hits          int
	sets          int
	invalidations int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]*domain.EffectiveShift)}
}

func weekKey(staffID int64, weekStart string) string {
	return fmt.Sprintf("%d_%s", staffID, weekStart)
}

func (f *fakeCache) GetWeek(_ context.Context, staffID int64, weekStart string) ([]*domain.EffectiveShift, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	week, ok := f.data[weekKey(staffID, weekStart)]
	if ok {
		f.hits++
	}
	return week, ok
}

func (f *fakeCache) SetWeek(_ context.Context, staffID int64, weekStart string, shifts []*domain.EffectiveShift) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sets++
	f.data[weekKey(staffID, weekStart)] = shifts
}

func (f *fakeCache) InvalidateWeek(_ context.Context, staffID int64, weekStart string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.invalidations++
	delete(f.data, weekKey(staffID, weekStart))
}
