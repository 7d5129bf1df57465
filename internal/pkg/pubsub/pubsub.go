package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const (
	ChannelUserEvents = "user_events"
)

// 事件类型
const (
	EventGenerateProgress = "generate_progress"
	EventPaymentResult    = "payment_result"
)

// 生成进度阶段常量
const (
	StepQueued    = "queued"
	StepComposing = "composing"
	StepRendering = "rendering"
	StepUploading = "uploading"
	StepDone      = "done"
)

// 阶段对应的进度百分比
var StepProgress = map[string]int{
	StepQueued:    10,
	StepComposing: 40,
	StepRendering: 70,
	StepUploading: 90,
	StepDone:      100,
}

// 阶段对应的消息
var StepMessages = map[string]string{
	StepQueued:    "任务已进入队列",
	StepComposing: "正在生成乐曲",
	StepRendering: "正在渲染音频",
	StepUploading: "正在上传音频",
	StepDone:      "生成完成",
}

// Event 推送给客户端的事件
type Event struct {
	Type     string `json:"type"`
	UserID   int64  `json:"user_id"`
	WorkID   int64  `json:"work_id,omitempty"`
	OrderID  int64  `json:"order_id,omitempty"`
	Status   string `json:"status,omitempty"`
	Step     string `json:"step,omitempty"`
	Progress int    `json:"progress,omitempty"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Publisher Redis 发布者
type Publisher struct {
	client *redis.Client
}

// NewPublisher 创建发布者
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// PublishProgress 发布生成进度事件
func (p *Publisher) PublishProgress(ctx context.Context, ev *Event) error {
	ev.Type = EventGenerateProgress

	// 自动填充进度和消息
	if ev.Progress == 0 && ev.Step != "" {
		ev.Progress = StepProgress[ev.Step]
	}
	if ev.Message == "" && ev.Step != "" {
		ev.Message = StepMessages[ev.Step]
	}

	return p.publish(ctx, ev)
}

// PublishPaymentResult 发布支付结果事件
func (p *Publisher) PublishPaymentResult(ctx context.Context, userID, orderID int64, success bool) error {
	status := "verified"
	if !success {
		status = "failed"
	}
	return p.publish(ctx, &Event{
		Type:    EventPaymentResult,
		UserID:  userID,
		OrderID: orderID,
		Status:  status,
	})
}

func (p *Publisher) publish(ctx context.Context, ev *Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return p.client.Publish(ctx, ChannelUserEvents, data).Err()
}

// Subscriber Redis 订阅者
type Subscriber struct {
	client *redis.Client
}

// NewSubscriber 创建订阅者
func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe 订阅用户事件，收到的每条事件交给 handler 处理。
// ctx 取消后返回。
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*Event)) error {
	sub := s.client.Subscribe(ctx, ChannelUserEvents)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				continue
			}
			handler(&ev)
		}
	}
}
