package testutil

import (
	"context"
	"testing"
	"time"
)

// WaitForCondition 等待条件满足或超时
//
// 参数：
//   - t: 测试对象
//   - timeout: 超时时间
//   - interval: 检查间隔
//   - condition: 条件函数，返回 true 表示条件满足
//
// 返回：条件是否满足（超时返回 false）
func WaitForCondition(t testing.TB, timeout time.Duration, interval time.Duration, condition func() bool) bool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// 立即检查一次
	if condition() {
		return true
	}

	for {
		select {
		case <-ctx.Done():
			return condition()
		case <-ticker.C:
			if condition() {
				return true
			}
		}
	}
}

// WaitForConditionOrFail 等待条件满足，超时则 fail 测试
func WaitForConditionOrFail(t testing.TB, timeout time.Duration, interval time.Duration, condition func() bool, msg string) {
	t.Helper()

	if !WaitForCondition(t, timeout, interval, condition) {
		t.Fatalf("等待超时: %s", msg)
	}
}

// Eventually 在指定时间内重试条件检查
//
// 使用默认间隔 5ms。
//
// 示例:
//
//	testutil.Eventually(t, time.Second, func() bool {
//	    return rec.Len() == 3
//	}, "应该收到三个事件")
func Eventually(t testing.TB, timeout time.Duration, condition func() bool, msg string) {
	t.Helper()
	WaitForConditionOrFail(t, timeout, 5*time.Millisecond, condition, msg)
}
