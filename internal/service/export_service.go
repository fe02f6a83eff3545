package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/DanielSoaresRocha/Proffy-Backend/internal/dto"
	"github.com/DanielSoaresRocha/Proffy-Backend/internal/model"
	"github.com/DanielSoaresRocha/Proffy-Backend/internal/repository"
	"github.com/DanielSoaresRocha/Proffy-Backend/pkg/timeconv"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoClasses    = errors.New("没有符合条件的课程")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
//   - ExportClasses：按检索条件导出课程列表为 Excel (.xlsx)，检索语义与 ClassService.Search 一致
//   - ExportCalendar：将单门课程的每周时段导出为 iCalendar，每个时段一个 FREQ=WEEKLY 事件
type ExportService interface {
	ExportClasses(ctx context.Context, req *dto.ClassSearchRequest) (*bytes.Buffer, string, error)
	ExportCalendar(ctx context.Context, classID string) ([]byte, string, error)
}

type exportService struct {
	repo   *repository.Repository
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例，loc 为日历事件所在时区
func NewExportService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, loc: loc, now: time.Now, logger: logger}
}

var weekDayNames = [...]string{"周日", "周一", "周二", "周三", "周四", "周五", "周六"}

// RFC 5545 BYDAY，下标与 week_day 一致
var icsWeekDays = [...]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

// ═══════════════════════════════════════════════════════════
// ExportClasses — 检索结果导出为 Excel
// ═══════════════════════════════════════════════════════════
//
// 表头: | 科目 | 费用 | 教师 | WhatsApp | 简介 | 每周时段 |

func (s *exportService) ExportClasses(ctx context.Context, req *dto.ClassSearchRequest) (*bytes.Buffer, string, error) {
	filter, err := parseClassFilter(req)
	if err != nil {
		return nil, "", err
	}

	rows, err := s.repo.Class.Search(ctx, filter)
	if err != nil {
		s.logger.Error("导出检索课程失败", zap.Error(err))
		return nil, "", err
	}
	if len(rows) == 0 {
		return nil, "", ErrExportNoClasses
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "课程"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 16)
	f.SetColWidth(sheetName, "B", "B", 10)
	f.SetColWidth(sheetName, "C", "D", 18)
	f.SetColWidth(sheetName, "E", "E", 40)
	f.SetColWidth(sheetName, "F", "F", 36)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#8257E5"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	headers := []string{"科目", "费用", "教师", "WhatsApp", "简介", "每周时段"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheetName, "A1", cell(colName(len(headers)-1), 1), headerStyle)

	classIDs := make([]string, 0, len(rows))
	for _, r := range rows {
		classIDs = append(classIDs, r.ClassID)
	}
	slotsByClass, err := s.repo.Schedule.ListByClasses(ctx, classIDs)
	if err != nil {
		s.logger.Error("导出查询课程时段失败", zap.Int("classes", len(classIDs)), zap.Error(err))
		return nil, "", err
	}

	for i, r := range rows {
		slots := slotsByClass[r.ClassID]
		row := i + 2
		f.SetCellValue(sheetName, cell("A", row), r.Subject)
		f.SetCellValue(sheetName, cell("B", row), r.Cost)
		f.SetCellValue(sheetName, cell("C", row), r.Name)
		f.SetCellValue(sheetName, cell("D", row), r.Whatsapp)
		f.SetCellValue(sheetName, cell("E", row), r.Bio)
		f.SetCellValue(sheetName, cell("F", row), formatSlots(slots))
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("classes_%s_%s_%s.xlsx",
		filter.Subject, weekDayNames[filter.WeekDay], strings.ReplaceAll(req.Time, ":", ""))
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportCalendar — 单门课程导出为 iCalendar
// ═══════════════════════════════════════════════════════════
//
// 每个时段的首次发生日期取课程创建日（含）之后第一个对应星期

func (s *exportService) ExportCalendar(ctx context.Context, classID string) ([]byte, string, error) {
	class, err := loadClass(ctx, s.repo, classID)
	if err != nil {
		if !errors.Is(err, ErrClassNotFound) {
			s.logger.Error("导出日历查询课程失败", zap.String("class_id", classID), zap.Error(err))
		}
		return nil, "", err
	}

	anchor := class.CreatedAt
	if anchor.IsZero() {
		anchor = s.now()
	}
	anchor = anchor.In(s.loc)
	stamp := s.now().UTC()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Proffy//Classes//EN")

	description := ""
	if class.Tutor != nil {
		description = fmt.Sprintf("%s (WhatsApp: %s)", class.Tutor.Name, class.Tutor.Whatsapp)
	}

	for _, slot := range class.Schedules {
		if !timeconv.ValidWeekDay(slot.WeekDay) {
			continue
		}
		day := nextWeekDay(anchor, slot.WeekDay)

		evt := cal.AddEvent(slot.ClassScheduleID + "@proffy")
		evt.SetDtStampTime(stamp)
		evt.SetStartAt(day.Add(time.Duration(slot.FromMinute) * time.Minute))
		evt.SetEndAt(day.Add(time.Duration(slot.ToMinute) * time.Minute))
		evt.SetSummary(class.Subject)
		if description != "" {
			evt.SetDescription(description)
		}
		evt.AddRrule("FREQ=WEEKLY;BYDAY=" + icsWeekDays[slot.WeekDay])
	}

	filename := fmt.Sprintf("class_%s.ics", class.ClassID)
	return []byte(cal.Serialize()), filename, nil
}

// ── 辅助函数 ──

// nextWeekDay 返回 from 当天（含）起第一个 week_day 的零点
func nextWeekDay(from time.Time, weekDay int) time.Time {
	midnight := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	offset := (weekDay - int(midnight.Weekday()) + 7) % 7
	return midnight.AddDate(0, 0, offset)
}

func formatSlots(slots []model.ClassSchedule) string {
	parts := make([]string, 0, len(slots))
	for _, sl := range slots {
		name := "?"
		if timeconv.ValidWeekDay(sl.WeekDay) {
			name = weekDayNames[sl.WeekDay]
		}
		parts = append(parts, fmt.Sprintf("%s %s-%s", name,
			timeconv.FromMinutes(sl.FromMinute), timeconv.FromMinutes(sl.ToMinute)))
	}
	return strings.Join(parts, "; ")
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
