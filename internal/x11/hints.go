package x11

import (
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// allDesktops is the _NET_WM_DESKTOP value for a window shown on every
// desktop.
const allDesktops = 0xffffffff

var atomNames = []string{
	"_NET_WM_WINDOW_TYPE",
	"_NET_WM_WINDOW_TYPE_DOCK",
	"_NET_WM_DESKTOP",
	"_NET_WM_STRUT_PARTIAL",
	"_NET_WM_STRUT",
	"_NET_WM_STATE",
	"_NET_WM_STATE_STICKY",
	"_NET_WM_STATE_ABOVE",
	"_NET_WM_WINDOW_OPACITY",
}

// internAtoms sends every InternAtom request before reading any reply.
func internAtoms(conn *xgb.Conn, names []string) (map[string]xproto.Atom, error) {
	cookies := make([]xproto.InternAtomCookie, len(names))
	for i, name := range names {
		cookies[i] = xproto.InternAtom(conn, false, uint16(len(name)), name)
	}

	atoms := make(map[string]xproto.Atom, len(names))
	for i, cookie := range cookies {
		reply, err := cookie.Reply()
		if err != nil {
			return nil, fmt.Errorf("intern atom %s: %w", names[i], err)
		}
		atoms[names[i]] = reply.Atom
	}
	return atoms, nil
}

// cardinals encodes 32-bit property values in the connection byte order.
func cardinals(values ...uint32) []byte {
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		xgb.Put32(buf[4*i:], v)
	}
	return buf
}

// setHints marks the window as a sticky, always-on-top dock on every
// desktop, reserves its screen edge and applies opacity and
// override-redirect.
func (p *Presenter) setHints(o Options) error {
	atoms, err := internAtoms(p.conn, atomNames)
	if err != nil {
		return err
	}

	strut := p.geom.Strut()
	props := []struct {
		mode  byte
		name  string
		typ   xproto.Atom
		count int
		data  []byte
	}{
		{xproto.PropModeReplace, "_NET_WM_WINDOW_OPACITY", xproto.AtomCardinal, 1,
			cardinals(opacityValue(o.Opacity))},
		{xproto.PropModeReplace, "_NET_WM_WINDOW_TYPE", xproto.AtomAtom, 1,
			cardinals(uint32(atoms["_NET_WM_WINDOW_TYPE_DOCK"]))},
		{xproto.PropModeAppend, "_NET_WM_STATE", xproto.AtomAtom, 2,
			cardinals(uint32(atoms["_NET_WM_STATE_STICKY"]), uint32(atoms["_NET_WM_STATE_ABOVE"]))},
		{xproto.PropModeReplace, "_NET_WM_DESKTOP", xproto.AtomCardinal, 1,
			cardinals(allDesktops)},
		{xproto.PropModeReplace, "_NET_WM_STRUT_PARTIAL", xproto.AtomCardinal, 12,
			cardinals(strut[:]...)},
		{xproto.PropModeReplace, "_NET_WM_STRUT", xproto.AtomCardinal, 4,
			cardinals(strut[:4]...)},
	}
	for _, prop := range props {
		err := xproto.ChangePropertyChecked(p.conn, prop.mode, p.win, atoms[prop.name], prop.typ,
			32, uint32(prop.count), prop.data).Check()
		if err != nil {
			return fmt.Errorf("set %s: %w", prop.name, err)
		}
	}

	const title = "figbar"
	xproto.ChangeProperty(p.conn, xproto.PropModeReplace, p.win, xproto.AtomWmName, xproto.AtomString,
		8, uint32(len(title)), []byte(title))

	var redirect uint32
	if o.ForceDocking {
		redirect = 1
	}
	if err := xproto.ChangeWindowAttributesChecked(p.conn, p.win, xproto.CwOverrideRedirect, []uint32{redirect}).Check(); err != nil {
		return fmt.Errorf("set override-redirect: %w", err)
	}
	return nil
}
