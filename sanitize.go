// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rez

package rez

import (
	"fmt"
	"hash/fnv"
	"path"
	"strconv"
	"strings"
	"unicode"
)

// maxSegmentLen limits one output name to a common filesystem-safe length.
const maxSegmentLen = 240

// reservedNames are DOS/Windows device names that cannot be used as file names.
var reservedNames = map[string]struct{}{
	"aux": {}, "con": {}, "nul": {}, "prn": {}, "clock$": {},
	"com1": {}, "com2": {}, "com3": {}, "com4": {}, "com5": {}, "com6": {}, "com7": {}, "com8": {}, "com9": {},
	"lpt1": {}, "lpt2": {}, "lpt3": {}, "lpt4": {}, "lpt5": {}, "lpt6": {}, "lpt7": {}, "lpt8": {}, "lpt9": {},
}

// SanitizeName rewrites one archive display name into a filesystem-safe file name.
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsControl(r) || unicode.In(r, unicode.Cf) || r == '\uFFFD' || strings.ContainsRune(`<>:"/\|?*`, r) {
			b.WriteByte('_')
			continue
		}

		b.WriteRune(r)
	}

	out := strings.TrimRight(b.String(), ". ")
	if out == "" {
		return "_"
	}

	if isReservedName(out) {
		out = "_" + out
	}

	return shortenName(out, maxSegmentLen)
}

// checkRawName rejects names that would escape the extraction root when used verbatim.
func checkRawName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidExtractPath, name)
	case strings.ContainsAny(name, "/\\\x00"):
		return fmt.Errorf("%w: %q", ErrInvalidExtractPath, name)
	}

	return nil
}

// isReservedName reports whether the part before the first dot is a device name.
func isReservedName(name string) bool {
	base := strings.ToLower(name)
	if dot := strings.IndexByte(base, '.'); dot >= 0 {
		base = base[:dot]
	}

	_, ok := reservedNames[strings.TrimRight(base, " ")]
	return ok
}

// uniquePaths hands out case-insensitively unique slash paths.
type uniquePaths struct {
	used map[string]struct{}
	next map[string]int
}

func newUniquePaths(capacity int) *uniquePaths {
	return &uniquePaths{
		used: make(map[string]struct{}, capacity),
		next: make(map[string]int),
	}
}

// claim returns p, or p with a "~N" suffix when another path already took it.
func (u *uniquePaths) claim(p string) string {
	key := strings.ToLower(p)
	if _, taken := u.used[key]; !taken {
		u.used[key] = struct{}{}
		return p
	}

	dir, name := path.Split(p)
	for idx := max(u.next[key], 2); ; idx++ {
		candidate := dir + withNumericSuffix(name, idx)
		candidateKey := strings.ToLower(candidate)
		if _, taken := u.used[candidateKey]; taken {
			continue
		}

		u.used[candidateKey] = struct{}{}
		u.next[key] = idx + 1
		return candidate
	}
}

// withNumericSuffix inserts "~N" before the extension.
func withNumericSuffix(name string, n int) string {
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	suffix := "~" + strconv.Itoa(n)

	return shortenName(base, max(maxSegmentLen-len(ext)-len(suffix), 1)) + suffix + ext
}

// shortenName cuts long names and keeps them distinct with a hash suffix.
func shortenName(value string, maxLen int) string {
	if len(value) <= maxLen {
		return value
	}
	if maxLen <= 10 {
		return value[:maxLen]
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(value))
	hashPart := fmt.Sprintf("~%08x", h.Sum32())

	return value[:maxLen-len(hashPart)] + hashPart
}
