package notify

import (
	"Gin_postgres_redis_custody_tracker/models"
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// bot 进程订阅这个频道，把消息转发给管理员；本服务只发布，不负责送达
const Channel = "custody:events"

// Envelope 推送给展示层的通知载荷
type Envelope struct {
	Kind  string               `json:"kind"` // "take" | "return"
	Event *models.CustodyEvent `json:"event"`
	Item  *models.Item         `json:"item"`
	Actor ActorInfo            `json:"actor"`
}

type ActorInfo struct {
	AccountID   string `json:"accountId"`
	TelegramID  int64  `json:"telegramId"`
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"displayName"`
}

type Notifier struct {
	rdb *redis.Client
	log *zap.Logger
}

func New(rdb *redis.Client, log *zap.Logger) *Notifier {
	return &Notifier{rdb: rdb, log: log}
}

// CustodyChanged 尽力而为：发布失败只记日志，不影响已提交的交接
func (n *Notifier) CustodyChanged(ctx context.Context, ev *models.CustodyEvent, it *models.Item, actor *models.Account) {
	env := Envelope{
		Kind:  ev.Action,
		Event: ev,
		Item:  it,
		Actor: ActorInfo{
			AccountID:   actor.ID,
			TelegramID:  actor.TelegramID,
			Username:    actor.Username,
			DisplayName: actor.DisplayName(),
		},
	}
	b, err := json.Marshal(env)
	if err != nil {
		n.log.Error("marshal notification", zap.Error(err))
		return
	}
	if err := n.rdb.Publish(ctx, Channel, b).Err(); err != nil {
		n.log.Warn("publish notification",
			zap.String("channel", Channel),
			zap.Uint("eventId", ev.ID),
			zap.Error(err))
	}
}
