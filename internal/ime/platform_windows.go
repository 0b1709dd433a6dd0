//go:build windows

package ime

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"imeswitch/internal/locale"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")
	imm32  = windows.NewLazySystemDLL("imm32.dll")

	procGetForegroundWindow      = user32.NewProc("GetForegroundWindow")
	procGetWindowThreadProcessID = user32.NewProc("GetWindowThreadProcessId")
	procGetGUIThreadInfo         = user32.NewProc("GetGUIThreadInfo")
	procGetKeyboardLayout        = user32.NewProc("GetKeyboardLayout")
	procPostMessageW             = user32.NewProc("PostMessageW")
	procSendMessageW             = user32.NewProc("SendMessageW")
	procSendInput                = user32.NewProc("SendInput")
	procImmGetDefaultIMEWnd      = imm32.NewProc("ImmGetDefaultIMEWnd")
)

const (
	wmInputLangChangeRequest = 0x0050
	wmIMEControl             = 0x0283

	imcGetConversionMode = 0x0001
	imcSetConversionMode = 0x0002
	imcGetOpenStatus     = 0x0005
	imcSetOpenStatus     = 0x0006

	inputKeyboard = 1
	keyEventFUp   = 0x0002
)

type rect struct {
	Left, Top, Right, Bottom int32
}

// guiThreadInfo mirrors GUITHREADINFO.
type guiThreadInfo struct {
	Size      uint32
	Flags     uint32
	Active    uintptr
	Focus     uintptr
	Capture   uintptr
	MenuOwner uintptr
	MoveSize  uintptr
	Caret     uintptr
	CaretRect rect
}

// keybdInput mirrors KEYBDINPUT.
type keybdInput struct {
	Vk        uint16
	Scan      uint16
	Flags     uint32
	Time      uint32
	ExtraInfo uintptr
}

// input mirrors the 64-bit INPUT layout: 4-byte type, 4 bytes padding,
// then the largest union member (MOUSEINPUT, 32 bytes).
type input struct {
	Type uint32
	_    uint32
	Ki   keybdInput
	_    [8]byte
}

type windowsPlatform struct{}

func newPlatform(_ *locale.Registry) Platform {
	return &windowsPlatform{}
}

func (*windowsPlatform) Name() string { return "windows" }

func (*windowsPlatform) Available() (bool, string) { return true, "" }

// FocusWindow resolves the window that owns keyboard focus on the
// foreground thread. GetGUIThreadInfo reports the focus-owning child
// window where GetForegroundWindow only sees the top-level frame; both
// the layout query and the IME probe are keyed off this one window.
func (*windowsPlatform) FocusWindow() (Window, error) {
	fg, _, _ := procGetForegroundWindow.Call()
	if fg == 0 {
		return 0, ErrNoFocus
	}

	tid, _, _ := procGetWindowThreadProcessID.Call(fg, 0)
	var info guiThreadInfo
	info.Size = uint32(unsafe.Sizeof(info))
	if ok, _, _ := procGetGUIThreadInfo.Call(tid, uintptr(unsafe.Pointer(&info))); ok != 0 && info.Focus != 0 {
		return Window(info.Focus), nil
	}
	return Window(fg), nil
}

func (*windowsPlatform) Layout(w Window) (locale.LayoutID, error) {
	tid, _, _ := procGetWindowThreadProcessID.Call(uintptr(w), 0)
	hkl, _, _ := procGetKeyboardLayout.Call(tid)
	if hkl == 0 {
		return 0, fmt.Errorf("ime: GetKeyboardLayout failed for window %#x", uintptr(w))
	}
	return locale.LayoutID(uint32(hkl)), nil
}

// RequestLayout posts WM_INPUTLANGCHANGEREQUEST to the focused window. A
// nil return means the request was delivered; the OS applies the layout
// asynchronously and the caller observes it through Layout.
func (*windowsPlatform) RequestLayout(w Window, id locale.LayoutID) error {
	ok, _, callErr := procPostMessageW.Call(uintptr(w), wmInputLangChangeRequest, 0, uintptr(id))
	if ok == 0 {
		return fmt.Errorf("ime: request layout %s: %w", id, callErr)
	}
	return nil
}

// imeWindow returns the default IME window serving w. Windows without an
// IME context (some sandboxed and console windows) have none.
func (*windowsPlatform) imeWindow(w Window) (uintptr, error) {
	ime, _, _ := procImmGetDefaultIMEWnd.Call(uintptr(w))
	if ime == 0 {
		return 0, fmt.Errorf("ime: window %#x has no IME context", uintptr(w))
	}
	return ime, nil
}

func (p *windowsPlatform) ConversionMode(w Window) (int, error) {
	ime, err := p.imeWindow(w)
	if err != nil {
		return 0, err
	}
	v, _, _ := procSendMessageW.Call(ime, wmIMEControl, imcGetConversionMode, 0)
	return int(v), nil
}

func (p *windowsPlatform) OpenStatus(w Window) (int, error) {
	ime, err := p.imeWindow(w)
	if err != nil {
		return 0, err
	}
	v, _, _ := procSendMessageW.Call(ime, wmIMEControl, imcGetOpenStatus, 0)
	if v != 0 {
		return 1, nil
	}
	return 0, nil
}

func (p *windowsPlatform) SetConversionMode(w Window, mode int) error {
	ime, err := p.imeWindow(w)
	if err != nil {
		return err
	}
	// WM_IME_CONTROL set requests return nonzero on failure.
	if r, _, _ := procSendMessageW.Call(ime, wmIMEControl, imcSetConversionMode, uintptr(mode)); r != 0 {
		return fmt.Errorf("ime: set conversion mode %d rejected", mode)
	}
	return nil
}

func (p *windowsPlatform) SetOpenStatus(w Window, open int) error {
	ime, err := p.imeWindow(w)
	if err != nil {
		return err
	}
	if r, _, _ := procSendMessageW.Call(ime, wmIMEControl, imcSetOpenStatus, uintptr(open)); r != 0 {
		return fmt.Errorf("ime: set open status %d rejected", open)
	}
	return nil
}

// SendCombo synthesizes the combination with SendInput: modifiers down,
// key down, key up, modifiers up in reverse order, all in one batch so no
// foreign input interleaves.
func (*windowsPlatform) SendCombo(combo locale.KeyCombo) error {
	if combo.IsZero() {
		return fmt.Errorf("ime: empty key combo")
	}
	vk, err := virtualKey(combo.Key)
	if err != nil {
		return err
	}
	mods := make([]uint16, 0, len(combo.Mods))
	for _, m := range combo.Mods {
		mv, ok := modifierVK[m]
		if !ok {
			return fmt.Errorf("ime: unknown modifier %q", m)
		}
		mods = append(mods, mv)
	}

	seq := make([]input, 0, 2*len(mods)+2)
	key := func(k uint16, flags uint32) input {
		return input{Type: inputKeyboard, Ki: keybdInput{Vk: k, Flags: flags}}
	}
	for _, m := range mods {
		seq = append(seq, key(m, 0))
	}
	seq = append(seq, key(vk, 0), key(vk, keyEventFUp))
	for i := len(mods) - 1; i >= 0; i-- {
		seq = append(seq, key(mods[i], keyEventFUp))
	}

	n, _, callErr := procSendInput.Call(
		uintptr(len(seq)),
		uintptr(unsafe.Pointer(&seq[0])),
		unsafe.Sizeof(seq[0]),
	)
	if int(n) != len(seq) {
		return fmt.Errorf("ime: SendInput delivered %d of %d events: %v", n, len(seq), callErr)
	}
	return nil
}

var modifierVK = map[string]uint16{
	"ctrl":  0x11, // VK_CONTROL
	"shift": 0x10, // VK_SHIFT
	"alt":   0x12, // VK_MENU
	"win":   0x5B, // VK_LWIN
}

var namedVK = map[string]uint16{
	"space":      0x20,
	"tab":        0x09,
	"enter":      0x0D,
	"esc":        0x1B,
	"grave":      0xC0, // VK_OEM_3
	"kana":       0x15, // VK_KANA
	"kanji":      0x19, // VK_KANJI, the zenkaku/hankaku key
	"convert":    0x1C, // VK_CONVERT (henkan)
	"nonconvert": 0x1D, // VK_NONCONVERT (muhenkan)
}

// virtualKey resolves a symbolic key name to a Windows virtual key code.
func virtualKey(name string) (uint16, error) {
	if vk, ok := namedVK[name]; ok {
		return vk, nil
	}
	if len(name) == 1 {
		c := name[0]
		switch {
		case c >= 'a' && c <= 'z':
			return uint16(c - 'a' + 0x41), nil
		case c >= '0' && c <= '9':
			return uint16(c - '0' + 0x30), nil
		}
	}
	if len(name) >= 2 && name[0] == 'f' {
		n := 0
		for _, r := range name[1:] {
			if r < '0' || r > '9' {
				n = 0
				break
			}
			n = n*10 + int(r-'0')
		}
		if n >= 1 && n <= 24 {
			return uint16(0x70 + n - 1), nil // VK_F1..VK_F24
		}
	}
	return 0, fmt.Errorf("ime: unknown key %q", name)
}
