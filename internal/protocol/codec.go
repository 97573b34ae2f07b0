package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// encodeName 定长名字段：右侧补 0x00，超长直接拒绝
func encodeName(dst []byte, name string) error {
	if len(name) > NameFieldBytes {
		return fmt.Errorf("%w: name is %d bytes, max %d", ErrFieldTooLong, len(name), NameFieldBytes)
	}
	clear(dst[:NameFieldBytes])
	copy(dst, name)
	return nil
}

func decodeName(raw []byte) string {
	return string(bytes.TrimRight(raw[:NameFieldBytes], "\x00"))
}

func putHeader(b []byte, typ byte) {
	binary.BigEndian.PutUint32(b[0:4], MagicCookie)
	b[4] = typ
}

// checkHeader 校验长度、cookie 与类型。
// 类型字节是已知类型但不是当前期望的，视为乱序而不是未知类型。
func checkHeader(b []byte, size int, want byte) error {
	if len(b) < size {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrShortRead, len(b), size)
	}
	if binary.BigEndian.Uint32(b[0:4]) != MagicCookie {
		return fmt.Errorf("%w: %#08x", ErrInvalidMagic, binary.BigEndian.Uint32(b[0:4]))
	}
	switch typ := b[4]; {
	case typ == want:
		return nil
	case typ == TypeOffer || typ == TypeRequest || typ == TypePayload:
		return fmt.Errorf("%w: got type %#02x, want %#02x", ErrOutOfOrder, typ, want)
	default:
		return fmt.Errorf("%w: %#02x", ErrUnknownType, typ)
	}
}

func (o Offer) MarshalBinary() ([]byte, error) {
	b := make([]byte, OfferSize)
	putHeader(b, TypeOffer)
	binary.BigEndian.PutUint16(b[5:7], o.TCPPort)
	if err := encodeName(b[7:], o.ServerName); err != nil {
		return nil, err
	}
	return b, nil
}

func (o *Offer) UnmarshalBinary(b []byte) error {
	if err := checkHeader(b, OfferSize, TypeOffer); err != nil {
		return err
	}
	o.TCPPort = binary.BigEndian.Uint16(b[5:7])
	o.ServerName = decodeName(b[7:])
	return nil
}

func (r Request) MarshalBinary() ([]byte, error) {
	b := make([]byte, RequestSize)
	putHeader(b, TypeRequest)
	b[5] = r.Rounds
	if err := encodeName(b[6:], r.TeamName); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *Request) UnmarshalBinary(b []byte) error {
	if err := checkHeader(b, RequestSize, TypeRequest); err != nil {
		return err
	}
	r.Rounds = b[5]
	r.TeamName = decodeName(b[6:])
	return nil
}

func (p ClientPayload) MarshalBinary() ([]byte, error) {
	if !p.Decision.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDecision, string(p.Decision))
	}
	b := make([]byte, ClientPayloadSize)
	putHeader(b, TypePayload)
	copy(b[5:], p.Decision)
	return b, nil
}

func (p *ClientPayload) UnmarshalBinary(b []byte) error {
	if err := checkHeader(b, ClientPayloadSize, TypePayload); err != nil {
		return err
	}
	// 必须逐字节精确匹配，不做 trim / 大小写归一
	d := Decision(b[5:ClientPayloadSize])
	if !d.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidDecision, string(d))
	}
	p.Decision = d
	return nil
}

func (p ServerPayload) MarshalBinary() ([]byte, error) {
	b := make([]byte, ServerPayloadSize)
	putHeader(b, TypePayload)
	b[5] = byte(p.Result)
	binary.BigEndian.PutUint16(b[6:8], p.Rank)
	b[8] = p.Suit
	return b, nil
}

func (p *ServerPayload) UnmarshalBinary(b []byte) error {
	if err := checkHeader(b, ServerPayloadSize, TypePayload); err != nil {
		return err
	}
	res, rank, suit := Result(b[5]), binary.BigEndian.Uint16(b[6:8]), b[8]
	if res > Win || rank < 1 || rank > 13 || suit > 3 {
		return fmt.Errorf("%w: result=%d rank=%d suit=%d", ErrInvalidField, res, rank, suit)
	}
	p.Result, p.Rank, p.Suit = res, rank, suit
	return nil
}
