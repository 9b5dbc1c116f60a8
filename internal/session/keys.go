package session

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// KeyKind identifies a key.
type KeyKind int

const (
	// KeyRune types a character.
	KeyRune KeyKind = iota
	// KeyBackspace deletes the character before the caret.
	KeyBackspace
	// KeyDelete deletes the character after the caret.
	KeyDelete
	// KeyLeft moves the caret one character left.
	KeyLeft
	// KeyRight moves the caret one character right.
	KeyRight
	// KeyHome moves the caret to the start of its line.
	KeyHome
	// KeyEnd moves the caret to the end of its line.
	KeyEnd
	// KeyUndo reverts the last edit.
	KeyUndo
	// KeyRedo reapplies the last undone edit.
	KeyRedo
)

// edits reports whether keys of this kind change the document.
func (k KeyKind) edits() bool {
	switch k {
	case KeyRune, KeyBackspace, KeyDelete:
		return true
	default:
		return false
	}
}

// Key is a single keystroke.
type Key struct {
	Kind KeyKind
	Rune rune
}

// RuneKey returns a key typing r.
func RuneKey(r rune) Key {
	return Key{Kind: KeyRune, Rune: r}
}

// String returns the script notation of the key.
func (k Key) String() string {
	switch k.Kind {
	case KeyRune:
		switch k.Rune {
		case '\n':
			return "<CR>"
		case '\t':
			return "<TAB>"
		case '<':
			return "<LT>"
		default:
			return string(k.Rune)
		}
	case KeyBackspace:
		return "<BS>"
	case KeyDelete:
		return "<DEL>"
	case KeyLeft:
		return "<LEFT>"
	case KeyRight:
		return "<RIGHT>"
	case KeyHome:
		return "<HOME>"
	case KeyEnd:
		return "<END>"
	case KeyUndo:
		return "<UNDO>"
	case KeyRedo:
		return "<REDO>"
	default:
		return fmt.Sprintf("<KEY%d>", int(k.Kind))
	}
}

var namedKeys = map[string]Key{
	"CR":    RuneKey('\n'),
	"ENTER": RuneKey('\n'),
	"TAB":   RuneKey('\t'),
	"LT":    RuneKey('<'),
	"BS":    {Kind: KeyBackspace},
	"DEL":   {Kind: KeyDelete},
	"LEFT":  {Kind: KeyLeft},
	"RIGHT": {Kind: KeyRight},
	"HOME":  {Kind: KeyHome},
	"END":   {Kind: KeyEnd},
	"UNDO":  {Kind: KeyUndo},
	"REDO":  {Kind: KeyRedo},
}

// ParseScript splits a key script into keys.
func ParseScript(script string) []Key {
	var keys []Key
	for i := 0; i < len(script); {
		if script[i] == '<' {
			if end := strings.IndexByte(script[i:], '>'); end > 0 {
				if k, ok := namedKeys[strings.ToUpper(script[i+1:i+end])]; ok {
					keys = append(keys, k)
					i += end + 1
					continue
				}
			}
		}

		r, size := utf8.DecodeRuneInString(script[i:])
		i += size
		if r == '\n' || r == '\r' {
			continue
		}
		keys = append(keys, RuneKey(r))
	}
	return keys
}

// FormatScript renders keys in script notation.
func FormatScript(keys []Key) string {
	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k.String())
	}
	return sb.String()
}
