// Package timeconv 在 "HH:MM" 字符串与当日分钟偏移量之间转换。
package timeconv

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// 星期取值范围，与 time.Weekday 一致（0=周日）
const (
	MinWeekDay = 0
	MaxWeekDay = 6
)

// ErrInvalidTime 时间格式不是合法的 "HH:MM"
var ErrInvalidTime = errors.New("invalid HH:MM time")

// ToMinutes 将 "HH:MM" 转为当日分钟数：hour*60 + minute
func ToMinutes(hhmm string) (int, error) {
	parts := strings.Split(hhmm, ":")
	if len(parts) != 2 || !isClockField(parts[0]) || !isClockField(parts[1]) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, hhmm)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, hhmm)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, hhmm)
	}

	return hour*60 + minute, nil
}

// isClockField 时、分字段只允许 1–2 位 ASCII 数字，不接受符号与多余前导零
func isClockField(s string) bool {
	if len(s) == 0 || len(s) > 2 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// FromMinutes 将当日分钟数格式化为 "HH:MM"
func FromMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ValidWeekDay 判断星期取值是否在 [MinWeekDay, MaxWeekDay]
func ValidWeekDay(weekDay int) bool {
	return weekDay >= MinWeekDay && weekDay <= MaxWeekDay
}
