package protocol

import (
	"encoding"
	"errors"
	"fmt"
	"io"
)

// readFrame TCP 是字节流，一次 Read 可能不足 n 字节，这里阻塞直到读满或连接关闭
func readFrame(r io.Reader, n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: %v", ErrShortRead, err)
		}
		return nil, err
	}
	return b, nil
}

func ReadRequest(r io.Reader) (Request, error) {
	var req Request
	b, err := readFrame(r, RequestSize)
	if err != nil {
		return req, err
	}
	err = req.UnmarshalBinary(b)
	return req, err
}

func ReadClientPayload(r io.Reader) (ClientPayload, error) {
	var p ClientPayload
	b, err := readFrame(r, ClientPayloadSize)
	if err != nil {
		return p, err
	}
	err = p.UnmarshalBinary(b)
	return p, err
}

func ReadServerPayload(r io.Reader) (ServerPayload, error) {
	var p ServerPayload
	b, err := readFrame(r, ServerPayloadSize)
	if err != nil {
		return p, err
	}
	err = p.UnmarshalBinary(b)
	return p, err
}

// Write 编码并一次性写出整条消息
func Write(w io.Writer, m encoding.BinaryMarshaler) error {
	b, err := m.MarshalBinary()
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
