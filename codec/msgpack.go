package codec

import "github.com/vmihailenco/msgpack/v5"

type msgpackCodec struct{}

// MsgPack returns a MessagePack codec backed by vmihailenco/msgpack.
func MsgPack() Codec { return msgpackCodec{} }

func (msgpackCodec) Name() string        { return "msgpack" }
func (msgpackCodec) ContentType() string { return "application/msgpack" }

func (msgpackCodec) Marshal(v any) ([]byte, error) { return msgpack.Marshal(v) }

func (msgpackCodec) Unmarshal(data []byte, v any) error { return msgpack.Unmarshal(data, v) }
