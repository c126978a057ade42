package testutil

import (
	"context"
	"testing"

	"github.com/dep2p/go-flowbus"
)

// StartRuntime 启动运行时，测试结束时自动关闭
//
// 示例:
//
//	rt := testutil.StartRuntime(t, flowbus.WithBufferSize(4))
//	rt.Post(testutil.NewTestEvent(1, "x"))
func StartRuntime(t testing.TB, opts ...flowbus.Option) *flowbus.Runtime {
	t.Helper()

	rt, err := flowbus.Start(context.Background(), opts...)
	if err != nil {
		t.Fatalf("启动运行时失败: %v", err)
	}
	t.Cleanup(func() {
		if err := rt.Close(); err != nil {
			t.Errorf("关闭运行时失败: %v", err)
		}
	})
	return rt
}
