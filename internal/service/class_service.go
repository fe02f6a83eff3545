package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/DanielSoaresRocha/Proffy-Backend/internal/dto"
	"github.com/DanielSoaresRocha/Proffy-Backend/internal/model"
	"github.com/DanielSoaresRocha/Proffy-Backend/internal/repository"
	"github.com/DanielSoaresRocha/Proffy-Backend/pkg/timeconv"
)

// ── 课程模块业务错误 ──

var (
	ErrMissingFilter = errors.New("缺少课程检索条件")
	ErrInvalidFilter = errors.New("课程检索条件格式错误")
	ErrCreateClass   = errors.New("登记课程失败")
	ErrClassNotFound = errors.New("课程不存在")
)

var (
	errEmptySchedule = errors.New("课程时段不能为空")
	errInvalidSlot   = errors.New("课程时段不合法")
)

// ── 领域事件 ──

// EventClassCreated 课程登记成功后发布的事件 routing key
const EventClassCreated = "class.created"

// EventPublisher 领域事件发布接口（由 pkg/mq.Publisher 实现）
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// ClassCreatedEvent class.created 事件负载
type ClassCreatedEvent struct {
	ClassID   string    `json:"class_id"`
	TutorID   string    `json:"tutor_id"`
	Subject   string    `json:"subject"`
	Cost      float64   `json:"cost"`
	Slots     int       `json:"slots"`
	CreatedAt time.Time `json:"created_at"`
}

// ClassService 课程业务接口
type ClassService interface {
	// Search 按星期、科目、时刻检索课程
	Search(ctx context.Context, req *dto.ClassSearchRequest) ([]dto.ClassResponse, error)
	// Register 在同一事务内创建教师、课程及其每周时段
	Register(ctx context.Context, req *dto.CreateClassRequest) error
	GetByID(ctx context.Context, id string) (*dto.ClassDetailResponse, error)
}

type classService struct {
	repo      *repository.Repository
	publisher EventPublisher
	logger    *zap.Logger
}

// NewClassService 创建 ClassService 实例
func NewClassService(repo *repository.Repository, publisher EventPublisher, logger *zap.Logger) ClassService {
	return &classService{repo: repo, publisher: publisher, logger: logger}
}

// ────────────────────── Search ──────────────────────

func (s *classService) Search(ctx context.Context, req *dto.ClassSearchRequest) ([]dto.ClassResponse, error) {
	filter, err := parseClassFilter(req)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.Class.Search(ctx, filter)
	if err != nil {
		s.logger.Error("检索课程失败",
			zap.String("subject", filter.Subject),
			zap.Int("week_day", filter.WeekDay),
			zap.Int("minute", filter.Minute),
			zap.Error(err),
		)
		return nil, err
	}

	result := make([]dto.ClassResponse, 0, len(rows))
	for i := range rows {
		result = append(result, toClassResponse(&rows[i]))
	}
	return result, nil
}

// ────────────────────── Register ──────────────────────

func (s *classService) Register(ctx context.Context, req *dto.CreateClassRequest) error {
	slots, err := buildSchedules(req.Schedule)
	if err != nil {
		s.logger.Warn("课程时段校验失败", zap.String("subject", req.Subject), zap.Error(err))
		return ErrCreateClass
	}

	tutor := &model.Tutor{
		Name:     req.Name,
		Avatar:   req.Avatar,
		Bio:      req.Bio,
		Whatsapp: req.Whatsapp,
	}
	class := &model.Class{Subject: req.Subject}
	if req.Cost != nil {
		class.Cost = *req.Cost
	}

	err = s.repo.Tx.WithTx(ctx, func(ctx context.Context, tx repository.TxRepositories) error {
		if err := tx.Tutor.Create(ctx, tutor); err != nil {
			return fmt.Errorf("创建教师失败: %w", err)
		}

		class.TutorID = tutor.TutorID
		if err := tx.Class.Create(ctx, class); err != nil {
			return fmt.Errorf("创建课程失败: %w", err)
		}

		for i := range slots {
			slots[i].ClassID = class.ClassID
		}
		if err := tx.Schedule.BatchCreate(ctx, slots); err != nil {
			return fmt.Errorf("创建课程时段失败: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("登记课程失败，事务已回滚", zap.String("subject", req.Subject), zap.Error(err))
		return ErrCreateClass
	}

	s.logger.Info("课程登记成功",
		zap.String("class_id", class.ClassID),
		zap.String("tutor_id", tutor.TutorID),
		zap.Int("slots", len(slots)),
	)

	s.publishClassCreated(ctx, &ClassCreatedEvent{
		ClassID:   class.ClassID,
		TutorID:   tutor.TutorID,
		Subject:   class.Subject,
		Cost:      class.Cost,
		Slots:     len(slots),
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

// ────────────────────── GetByID ──────────────────────

func (s *classService) GetByID(ctx context.Context, id string) (*dto.ClassDetailResponse, error) {
	class, err := loadClass(ctx, s.repo, id)
	if err != nil {
		if !errors.Is(err, ErrClassNotFound) {
			s.logger.Error("查询课程失败", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}
	return toClassDetailResponse(class), nil
}

// ── 内部辅助方法 ──

// publishClassCreated 事务已提交，发布失败只记录日志
func (s *classService) publishClassCreated(ctx context.Context, evt *ClassCreatedEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishJSON(ctx, EventClassCreated, evt); err != nil {
		s.logger.Warn("发布 class.created 事件失败", zap.String("class_id", evt.ClassID), zap.Error(err))
	}
}

// parseClassFilter 缺少任一条件返回 ErrMissingFilter，格式错误返回 ErrInvalidFilter
func parseClassFilter(req *dto.ClassSearchRequest) (repository.ClassFilter, error) {
	if req == nil || req.WeekDay == "" || req.Subject == "" || req.Time == "" {
		return repository.ClassFilter{}, ErrMissingFilter
	}

	weekDay, err := strconv.Atoi(req.WeekDay)
	if err != nil || !timeconv.ValidWeekDay(weekDay) {
		return repository.ClassFilter{}, ErrInvalidFilter
	}
	minute, err := timeconv.ToMinutes(req.Time)
	if err != nil {
		return repository.ClassFilter{}, ErrInvalidFilter
	}

	return repository.ClassFilter{
		WeekDay: weekDay,
		Subject: req.Subject,
		Minute:  minute,
	}, nil
}

// buildSchedules 将请求时段转换为分钟数，并校验 week_day 范围与 from < to
func buildSchedules(items []dto.ScheduleItemRequest) ([]model.ClassSchedule, error) {
	if len(items) == 0 {
		return nil, errEmptySchedule
	}

	slots := make([]model.ClassSchedule, 0, len(items))
	for i, item := range items {
		if item.WeekDay == nil || !timeconv.ValidWeekDay(*item.WeekDay) {
			return nil, fmt.Errorf("%w: 第 %d 项 week_day 无效", errInvalidSlot, i)
		}
		from, err := timeconv.ToMinutes(item.From)
		if err != nil {
			return nil, fmt.Errorf("%w: 第 %d 项 from: %v", errInvalidSlot, i, err)
		}
		to, err := timeconv.ToMinutes(item.To)
		if err != nil {
			return nil, fmt.Errorf("%w: 第 %d 项 to: %v", errInvalidSlot, i, err)
		}
		if from >= to {
			return nil, fmt.Errorf("%w: 第 %d 项 from 必须早于 to", errInvalidSlot, i)
		}
		slots = append(slots, model.ClassSchedule{
			WeekDay:    *item.WeekDay,
			FromMinute: from,
			ToMinute:   to,
		})
	}
	return slots, nil
}

// loadClass 按 ID 加载课程（含教师与时段），非法 ID 与不存在统一返回 ErrClassNotFound
func loadClass(ctx context.Context, repo *repository.Repository, id string) (*model.Class, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrClassNotFound
	}

	class, err := repo.Class.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}
	return class, nil
}

func toClassResponse(row *model.ClassWithTutor) dto.ClassResponse {
	return dto.ClassResponse{
		ID:       row.ClassID,
		Subject:  row.Subject,
		Cost:     row.Cost,
		TutorID:  row.TutorID,
		Name:     row.Name,
		Avatar:   row.Avatar,
		Bio:      row.Bio,
		Whatsapp: row.Whatsapp,
	}
}

func toClassDetailResponse(class *model.Class) *dto.ClassDetailResponse {
	resp := &dto.ClassDetailResponse{
		ID:        class.ClassID,
		Subject:   class.Subject,
		Cost:      class.Cost,
		Schedule:  make([]dto.ScheduleResponse, 0, len(class.Schedules)),
		CreatedAt: class.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}

	if class.Tutor != nil {
		resp.Tutor = &dto.TutorBrief{
			ID:       class.Tutor.TutorID,
			Name:     class.Tutor.Name,
			Avatar:   class.Tutor.Avatar,
			Bio:      class.Tutor.Bio,
			Whatsapp: class.Tutor.Whatsapp,
		}
	}

	for _, slot := range class.Schedules {
		resp.Schedule = append(resp.Schedule, dto.ScheduleResponse{
			ID:      slot.ClassScheduleID,
			WeekDay: slot.WeekDay,
			From:    timeconv.FromMinutes(slot.FromMinute),
			To:      timeconv.FromMinutes(slot.ToMinute),
		})
	}

	return resp
}
