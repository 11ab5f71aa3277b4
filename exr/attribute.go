package exr

import (
	"fmt"

	"github.com/mrjoshuak/go-spherestim/internal/xdr"
)

// Attribute type names.
const (
	AttrTypeBox2i       = "box2i"
	AttrTypeChlist      = "chlist"
	AttrTypeCompression = "compression"
	AttrTypeEnvmap      = "envmap"
	AttrTypeFloat       = "float"
	AttrTypeInt         = "int"
	AttrTypeLineOrder   = "lineOrder"
	AttrTypeString      = "string"
	AttrTypeV2f         = "v2f"
)

// Attribute is a single header attribute. Value holds the decoded value
// for the types this package understands (Box2i, []Channel, Compression,
// EnvMap, float32, int32, LineOrder, string, V2f) and the raw bytes for
// any other type.
type Attribute struct {
	Name  string
	Type  string
	Value any
}

// readAttribute reads one attribute. It returns nil at the header
// terminator.
func readAttribute(r *xdr.Reader) (*Attribute, error) {
	name, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, nil
	}
	typeName, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	size, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	if size < 0 || int(size) > r.Len() {
		return nil, fmt.Errorf("%w: attribute %q has size %d", ErrInvalidHeader, name, size)
	}
	data, _ := r.ReadBytes(int(size))
	vr := xdr.NewReader(data)

	attr := &Attribute{Name: name, Type: typeName}
	switch typeName {
	case AttrTypeBox2i:
		attr.Value, err = readBox2i(vr)
	case AttrTypeChlist:
		attr.Value, err = readChannelList(vr)
	case AttrTypeCompression:
		b, e := vr.ReadUint8()
		attr.Value, err = Compression(b), e
	case AttrTypeEnvmap:
		b, e := vr.ReadUint8()
		attr.Value, err = EnvMap(b), e
	case AttrTypeFloat:
		attr.Value, err = vr.ReadFloat32()
	case AttrTypeInt:
		attr.Value, err = vr.ReadInt32()
	case AttrTypeLineOrder:
		b, e := vr.ReadUint8()
		attr.Value, err = LineOrder(b), e
	case AttrTypeString:
		attr.Value = string(data)
	case AttrTypeV2f:
		attr.Value, err = readV2f(vr)
	default:
		raw := make([]byte, len(data))
		copy(raw, data)
		attr.Value = raw
	}
	if err != nil {
		return nil, fmt.Errorf("%w: attribute %q: %v", ErrInvalidHeader, name, err)
	}
	return attr, nil
}

// writeAttribute writes a in the header encoding: name, type, size, value.
func writeAttribute(w *xdr.BufferWriter, a *Attribute) error {
	vw := xdr.NewBufferWriter(64)
	switch v := a.Value.(type) {
	case Box2i:
		writeBox2i(vw, v)
	case []Channel:
		writeChannelList(vw, v)
	case Compression:
		vw.WriteUint8(uint8(v))
	case EnvMap:
		vw.WriteUint8(uint8(v))
	case float32:
		vw.WriteFloat32(v)
	case int32:
		vw.WriteInt32(v)
	case LineOrder:
		vw.WriteUint8(uint8(v))
	case string:
		vw.WriteBytes([]byte(v))
	case V2f:
		writeV2f(vw, v)
	case []byte:
		vw.WriteBytes(v)
	default:
		return fmt.Errorf("%w: attribute %q has unsupported value %T", ErrInvalidHeader, a.Name, a.Value)
	}

	w.WriteString(a.Name)
	w.WriteString(a.Type)
	w.WriteInt32(int32(vw.Len()))
	w.WriteBytes(vw.Bytes())
	return nil
}
