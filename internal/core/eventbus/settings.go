// Package eventbus 实现事件总线
package eventbus

import pkgif "github.com/dep2p/go-flowbus/pkg/interfaces"

// subscriptionSettings 是 pkg/interfaces.SubscriptionSettings 的别名
type subscriptionSettings = pkgif.SubscriptionSettings

// postSettings 是 pkg/interfaces.PostSettings 的别名
type postSettings = pkgif.PostSettings
