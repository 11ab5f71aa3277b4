package exr

import "github.com/mrjoshuak/go-spherestim/internal/xdr"

// Channel describes one image channel.
type Channel struct {
	Name      string
	Type      PixelType
	PLinear   bool
	XSampling int32
	YSampling int32
}

func readChannelList(r *xdr.Reader) ([]Channel, error) {
	var chans []Channel
	for {
		name, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		if name == "" {
			return chans, nil
		}

		pt, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		pl, err := r.ReadUint8()
		if err != nil {
			return nil, err
		}
		if err := r.Skip(3); err != nil {
			return nil, err
		}
		xs, err := r.ReadInt32()
		if err != nil {
			return nil, err
		}
		ys, err := r.ReadInt32()
		if err != nil {
			return nil, err
		}
		chans = append(chans, Channel{
			Name:      name,
			Type:      PixelType(pt),
			PLinear:   pl != 0,
			XSampling: xs,
			YSampling: ys,
		})
	}
}

func writeChannelList(w *xdr.BufferWriter, chans []Channel) {
	for _, c := range chans {
		w.WriteString(c.Name)
		w.WriteUint32(uint32(c.Type))
		if c.PLinear {
			w.WriteUint8(1)
		} else {
			w.WriteUint8(0)
		}
		w.WriteBytes([]byte{0, 0, 0})
		w.WriteInt32(c.XSampling)
		w.WriteInt32(c.YSampling)
	}
	w.WriteUint8(0)
}
