package websocket

// OutgoingMessage 推送给观战端的 JSON 消息
type OutgoingMessage struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}
