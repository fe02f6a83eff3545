package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/DanielSoaresRocha/Proffy-Backend/internal/model"
	"github.com/DanielSoaresRocha/Proffy-Backend/internal/repository"
)

// ── Mock TutorRepository ──

type mockTutorRepo struct {
	tutors    map[string]*model.Tutor
	createErr error
}

func newMockTutorRepo() *mockTutorRepo {
	return &mockTutorRepo{tutors: make(map[string]*model.Tutor)}
}

func (m *mockTutorRepo) Create(_ context.Context, tutor *model.Tutor) error {
	if m.createErr != nil {
		return m.createErr
	}
	if tutor.TutorID == "" {
		tutor.TutorID = uuid.NewString()
	}
	cp := *tutor
	m.tutors[tutor.TutorID] = &cp
	return nil
}

func (m *mockTutorRepo) GetByID(_ context.Context, id string) (*model.Tutor, error) {
	if t, ok := m.tutors[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock ClassScheduleRepository ──

type mockScheduleRepo struct {
	slots     map[string][]model.ClassSchedule // class_id → slots
	batchErr  error
	listErr   error
	listCalls int
}

func newMockScheduleRepo() *mockScheduleRepo {
	return &mockScheduleRepo{slots: make(map[string][]model.ClassSchedule)}
}

func (m *mockScheduleRepo) BatchCreate(_ context.Context, slots []model.ClassSchedule) error {
	if m.batchErr != nil {
		return m.batchErr
	}
	for i := range slots {
		if slots[i].ClassScheduleID == "" {
			slots[i].ClassScheduleID = uuid.NewString()
		}
		m.slots[slots[i].ClassID] = append(m.slots[slots[i].ClassID], slots[i])
	}
	return nil
}

func (m *mockScheduleRepo) ListByClasses(_ context.Context, classIDs []string) (map[string][]model.ClassSchedule, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	grouped := make(map[string][]model.ClassSchedule, len(classIDs))
	for _, id := range classIDs {
		if slots, ok := m.slots[id]; ok {
			grouped[id] = append([]model.ClassSchedule(nil), slots...)
		}
	}
	return grouped, nil
}

// ── Mock ClassRepository ──
// Search 使用 model.AnyScheduleCovers 复现 EXISTS 半连接语义

type mockClassRepo struct {
	classes     map[string]*model.Class
	order       []string
	createErr   error
	searchErr   error
	searchCalls int

	tutors    *mockTutorRepo
	schedules *mockScheduleRepo
}

func newMockClassRepo(tutors *mockTutorRepo, schedules *mockScheduleRepo) *mockClassRepo {
	return &mockClassRepo{
		classes:   make(map[string]*model.Class),
		tutors:    tutors,
		schedules: schedules,
	}
}

func (m *mockClassRepo) Create(_ context.Context, class *model.Class) error {
	if m.createErr != nil {
		return m.createErr
	}
	if class.ClassID == "" {
		class.ClassID = uuid.NewString()
	}
	cp := *class
	m.classes[class.ClassID] = &cp
	m.order = append(m.order, class.ClassID)
	return nil
}

func (m *mockClassRepo) GetByID(_ context.Context, id string) (*model.Class, error) {
	c, ok := m.classes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	if m.tutors != nil {
		cp.Tutor = m.tutors.tutors[c.TutorID]
	}
	if m.schedules != nil {
		cp.Schedules = append([]model.ClassSchedule(nil), m.schedules.slots[c.ClassID]...)
	}
	return &cp, nil
}

func (m *mockClassRepo) Search(_ context.Context, filter repository.ClassFilter) ([]model.ClassWithTutor, error) {
	m.searchCalls++
	if m.searchErr != nil {
		return nil, m.searchErr
	}

	var rows []model.ClassWithTutor
	for _, id := range m.order {
		c := m.classes[id]
		if c.Subject != filter.Subject {
			continue
		}
		if !model.AnyScheduleCovers(m.schedules.slots[id], filter.WeekDay, filter.Minute) {
			continue
		}
		row := model.ClassWithTutor{
			ClassID: c.ClassID,
			Subject: c.Subject,
			Cost:    c.Cost,
			TutorID: c.TutorID,
		}
		if t, ok := m.tutors.tutors[c.TutorID]; ok {
			row.Name = t.Name
			row.Avatar = t.Avatar
			row.Bio = t.Bio
			row.Whatsapp = t.Whatsapp
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ── Mock TxManager ──
// 事务内写入先落在暂存 Repository，fn 成功才合并到已提交数据，失败则整体丢弃

type mockTxManager struct {
	tutors    *mockTutorRepo
	classes   *mockClassRepo
	schedules *mockScheduleRepo
	commits   int
	rollbacks int
}

func (m *mockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepositories) error) error {
	stagedTutors := &mockTutorRepo{tutors: make(map[string]*model.Tutor), createErr: m.tutors.createErr}
	stagedSchedules := &mockScheduleRepo{slots: make(map[string][]model.ClassSchedule), batchErr: m.schedules.batchErr}
	stagedClasses := &mockClassRepo{classes: make(map[string]*model.Class), createErr: m.classes.createErr}

	err := fn(ctx, repository.TxRepositories{
		Tutor:    stagedTutors,
		Class:    stagedClasses,
		Schedule: stagedSchedules,
	})
	if err != nil {
		m.rollbacks++
		return err
	}

	for id, t := range stagedTutors.tutors {
		m.tutors.tutors[id] = t
	}
	for _, id := range stagedClasses.order {
		m.classes.classes[id] = stagedClasses.classes[id]
		m.classes.order = append(m.classes.order, id)
	}
	for classID, slots := range stagedSchedules.slots {
		m.schedules.slots[classID] = append(m.schedules.slots[classID], slots...)
	}
	m.commits++
	return nil
}

// ── Mock EventPublisher ──

type publishedEvent struct {
	key     string
	payload any
}

type mockPublisher struct {
	events []publishedEvent
	err    error
}

func (m *mockPublisher) PublishJSON(_ context.Context, key string, v any) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, publishedEvent{key: key, payload: v})
	return nil
}

// ── 组装 ──

type mockStore struct {
	tutors    *mockTutorRepo
	classes   *mockClassRepo
	schedules *mockScheduleRepo
	tx        *mockTxManager
}

func newMockStore() *mockStore {
	tutors := newMockTutorRepo()
	schedules := newMockScheduleRepo()
	classes := newMockClassRepo(tutors, schedules)
	return &mockStore{
		tutors:    tutors,
		classes:   classes,
		schedules: schedules,
		tx:        &mockTxManager{tutors: tutors, classes: classes, schedules: schedules},
	}
}

func (s *mockStore) repository() *repository.Repository {
	return &repository.Repository{
		Tutor:    s.tutors,
		Class:    s.classes,
		Schedule: s.schedules,
		Tx:       s.tx,
	}
}
