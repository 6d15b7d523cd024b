package jsondiff

import (
	"strconv"
	"strings"
)

type tokenKind uint8

const (
	keyToken tokenKind = iota
	indexToken
	appendToken
)

// Token is one step of a Path: an object key, an array index, or the append
// marker "-" that addresses the position one past the end of an array
type Token struct {
	kind  tokenKind
	key   string
	index int
}

// Key creates an object key token
func Key(k string) Token { return Token{kind: keyToken, key: k} }

// Index creates an array index token. i must not be negative
func Index(i int) Token { return Token{kind: indexToken, index: i} }

// Append creates the append marker token
func Append() Token { return Token{kind: appendToken} }

// IsKey reports whether t is an object key token
func (t Token) IsKey() bool { return t.kind == keyToken }

// IsIndex reports whether t is an array index token
func (t Token) IsIndex() bool { return t.kind == indexToken }

// IsAppend reports whether t is the append marker
func (t Token) IsAppend() bool { return t.kind == appendToken }

// Index returns the array position of an index token
func (t Token) Index() (int, bool) {
	return t.index, t.kind == indexToken
}

// String returns the raw, unescaped token text. index tokens that land on an
// object are looked up with this text as the key
func (t Token) String() string {
	switch t.kind {
	case indexToken:
		return strconv.Itoa(t.index)
	case appendToken:
		return "-"
	default:
		return t.key
	}
}

// display renders a token for Path.String. index tokens get an underscore
// prefix, so keys that could pass for one are escaped with a backslash
func (t Token) display() string {
	switch t.kind {
	case indexToken:
		return "_" + strconv.Itoa(t.index)
	case appendToken:
		return "-"
	}
	k := escapeToken(t.key)
	if strings.HasPrefix(k, "_") || strings.HasPrefix(k, `\`) || k == "-" {
		return `\` + k
	}
	return k
}

// compare orders tokens: keys sort before indexes, which sort before the
// append marker
func (t Token) compare(o Token) int {
	if t.kind != o.kind {
		if t.kind < o.kind {
			return -1
		}
		return 1
	}
	switch t.kind {
	case keyToken:
		return strings.Compare(t.key, o.key)
	case indexToken:
		switch {
		case t.index < o.index:
			return -1
		case t.index > o.index:
			return 1
		}
	}
	return 0
}

// parseToken classifies a raw, unescaped pointer token. digits without a
// leading zero are an index, "-" is the append marker, anything else is a key.
// "01" is a key
func parseToken(raw string) Token {
	if raw == "-" {
		return Append()
	}
	if raw == "" || (raw[0] == '0' && len(raw) > 1) {
		return Key(raw)
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return Key(raw)
		}
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		// too large to ever be a valid position
		return Key(raw)
	}
	return Index(i)
}

// Path is an ordered list of tokens that names a location in a document by
// walking from the root. the empty Path is the root
type Path []Token

// ParsePointer parses an RFC 6901 JSON pointer. the empty string is the root,
// any other pointer must begin with "/"
func ParsePointer(ptr string) (Path, error) {
	if ptr == "" {
		return Path{}, nil
	}
	if ptr[0] != '/' {
		return nil, &PointerError{Err: ErrMalformedPointer, Pointer: ptr}
	}
	raw := strings.Split(ptr[1:], "/")
	p := make(Path, len(raw))
	for i, tok := range raw {
		p[i] = parseToken(unescapeToken(tok))
	}
	return p, nil
}

// MustParsePointer is ParsePointer that panics on error, for use with
// pointer literals
func MustParsePointer(ptr string) Path {
	p, err := ParsePointer(ptr)
	if err != nil {
		panic(err)
	}
	return p
}

func unescapeToken(tok string) string {
	if !strings.Contains(tok, "~") {
		return tok
	}
	return strings.ReplaceAll(strings.ReplaceAll(tok, "~1", "/"), "~0", "~")
}

func escapeToken(tok string) string {
	if !strings.ContainsAny(tok, "~/") {
		return tok
	}
	return strings.ReplaceAll(strings.ReplaceAll(tok, "~", "~0"), "/", "~1")
}

// Pointer renders p as an RFC 6901 JSON pointer. the root is the empty string
func (p Path) Pointer() string {
	if len(p) == 0 {
		return ""
	}
	b := &strings.Builder{}
	for _, t := range p {
		b.WriteByte('/')
		b.WriteString(escapeToken(t.String()))
	}
	return b.String()
}

// String renders p for display: "/" separated, index tokens written as _N,
// keys escaped so they can't be confused with an index. the root is "/"
func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	return p.key()
}

// key is the lookup key a Result indexes changes by. unlike String it is
// injective, the root is "" while a single empty key is "/"
func (p Path) key() string {
	b := &strings.Builder{}
	for _, t := range p {
		b.WriteByte('/')
		b.WriteString(t.display())
	}
	return b.String()
}

// Append returns a new path with toks added to the end. p is never modified
func (p Path) Append(toks ...Token) Path {
	cp := make(Path, len(p), len(p)+len(toks))
	copy(cp, p)
	return append(cp, toks...)
}

// AppendKey returns a new path extended with an object key
func (p Path) AppendKey(k string) Path { return p.Append(Key(k)) }

// AppendIndex returns a new path extended with an array index
func (p Path) AppendIndex(i int) Path { return p.Append(Index(i)) }

// Parent returns the path of the containing node. the root is its own parent
func (p Path) Parent() Path {
	if len(p) == 0 {
		return p
	}
	return p[:len(p)-1]
}

// Last returns the final token, false for the root
func (p Path) Last() (Token, bool) {
	if len(p) == 0 {
		return Token{}, false
	}
	return p[len(p)-1], true
}

// HasPrefix reports whether prefix names p or one of p's ancestors
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	for i := range prefix {
		if p[i] != prefix[i] {
			return false
		}
	}
	return true
}

// Equal reports whether p & o name the same location
func (p Path) Equal(o Path) bool {
	return len(p) == len(o) && p.HasPrefix(o)
}

// Compare orders paths token by token, a path sorts before any path it is a
// prefix of. it returns -1, 0 or 1
func (p Path) Compare(o Path) int {
	for i := 0; i < len(p) && i < len(o); i++ {
		if c := p[i].compare(o[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(p) < len(o):
		return -1
	case len(p) > len(o):
		return 1
	}
	return 0
}

// MarshalText encodes a path as a JSON pointer
func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.Pointer()), nil
}

// UnmarshalText decodes a JSON pointer
func (p *Path) UnmarshalText(text []byte) error {
	parsed, err := ParsePointer(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
