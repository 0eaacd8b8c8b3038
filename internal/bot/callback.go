// SPDX-License-Identifier: MIT

package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Callback prefixes. Telegram caps callback data at 64 bytes, so prefixes
// and keys stay short and values are numeric indexes where possible.
const (
	cbMenu  = "mn"  // main menu actions
	cbRoute = "rt"  // route planning menu
	cbInput = "in"  // input method selection
	cbStop  = "st"  // stop list selection and paging
	cbTime  = "tm"  // time presets
	cbOrg   = "org" // organizations browsing
	cbAdmin = "adm" // admin actions
	cbNoop  = "nop" // decorative buttons
)

var errBadCallback = errors.New("bot: malformed callback data")

// callbackData is the decoded form of an inline button payload,
// "prefix:k=v;k=v".
type callbackData struct {
	prefix string
	args   map[string]string
}

func encodeCallback(prefix string, kv ...string) string {
	if len(kv)%2 != 0 {
		panic("encodeCallback: odd key/value count")
	}
	var b strings.Builder
	b.WriteString(prefix)
	for i := 0; i < len(kv); i += 2 {
		if i == 0 {
			b.WriteByte(':')
		} else {
			b.WriteByte(';')
		}
		b.WriteString(kv[i])
		b.WriteByte('=')
		b.WriteString(kv[i+1])
	}
	return b.String()
}

func decodeCallback(data string) (callbackData, error) {
	if data == "" {
		return callbackData{}, errBadCallback
	}

	prefix, rest, hasArgs := strings.Cut(data, ":")
	cd := callbackData{prefix: prefix, args: make(map[string]string)}
	if !hasArgs {
		return cd, nil
	}

	for _, pair := range strings.Split(rest, ";") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return callbackData{}, fmt.Errorf("%w: %q", errBadCallback, data)
		}
		cd.args[k] = v
	}
	return cd, nil
}

func (cd callbackData) str(key string) string {
	return cd.args[key]
}

func (cd callbackData) num(key string) (int, error) {
	raw, ok := cd.args[key]
	if !ok {
		return 0, fmt.Errorf("%w: missing %q", errBadCallback, key)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", errBadCallback, key)
	}
	return n, nil
}
