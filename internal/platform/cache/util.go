package cache

import (
	"time"
)

// TimeUntilNextRefresh は loc における次の hour 時（0分0秒）までの期間を返します。
// 日足データは取引所の引け後に一度だけ更新されるため、キャッシュのTTLに使います。
func TimeUntilNextRefresh(now time.Time, loc *time.Location, hour int) time.Duration {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)

	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, loc)
	// 今日の更新時刻が既に過ぎている場合は翌日を使用
	if !now.Before(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}
