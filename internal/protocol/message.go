package protocol

import "errors"

// 协议常量
const (
	MagicCookie uint32 = 0xabcddcba

	TypeOffer   byte = 0x02 // UDP: server -> client
	TypeRequest byte = 0x03 // TCP: client -> server
	TypePayload byte = 0x04 // TCP: 双向

	OfferPort = 13122 // 客户端监听 offer 的 UDP 端口

	NameFieldBytes     = 32
	DecisionFieldBytes = 5

	OfferSize         = 4 + 1 + 2 + NameFieldBytes // 39
	RequestSize       = 4 + 1 + 1 + NameFieldBytes // 38
	ClientPayloadSize = 4 + 1 + DecisionFieldBytes // 10
	ServerPayloadSize = 4 + 1 + 1 + 2 + 1          // 9
)

var (
	ErrInvalidMagic    = errors.New("invalid magic cookie")
	ErrShortRead       = errors.New("short read")
	ErrUnknownType     = errors.New("unknown message type")
	ErrInvalidDecision = errors.New("invalid decision")
	ErrFieldTooLong    = errors.New("field too long")
	ErrOutOfOrder      = errors.New("message out of order")
	ErrInvalidField    = errors.New("field out of range")
)

// Decision 客户端决策，线上固定 5 字节
type Decision string

const (
	Hit   Decision = "Hittt"
	Stand Decision = "Stand"
)

func (d Decision) Valid() bool {
	return d == Hit || d == Stand
}

// Result 服务端 payload 中的回合结果
type Result byte

const (
	Active Result = iota
	Tie
	Loss
	Win
)

func (r Result) String() string {
	switch r {
	case Active:
		return "active"
	case Tie:
		return "tie"
	case Loss:
		return "loss"
	case Win:
		return "win"
	}
	return "unknown"
}

// Terminal 结果非 Active 即本回合最后一条 payload
func (r Result) Terminal() bool {
	return r != Active
}

// Offer (UDP) cookie(4) | type(1) | tcp_port(2) | server_name(32)
type Offer struct {
	TCPPort    uint16
	ServerName string
}

// Request (TCP) cookie(4) | type(1) | rounds(1) | team_name(32)
type Request struct {
	Rounds   uint8
	TeamName string
}

// ClientPayload (TCP) cookie(4) | type(1) | decision(5)
type ClientPayload struct {
	Decision Decision
}

// ServerPayload (TCP) cookie(4) | type(1) | result(1) | rank(2) | suit(1)
type ServerPayload struct {
	Result Result
	Rank   uint16
	Suit   uint8
}
