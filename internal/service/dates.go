package service

import "time"

// DateLayout API 使用的日期格式
const DateLayout = "2006-01-02"

// dayStart 解析 YYYY-MM-DD 並回傳該日在 loc 時區的零時
func dayStart(date string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// today 回傳 now 在 loc 時區當天的零時
func today(now time.Time, loc *time.Location) time.Time {
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
