// Package pagination normalizes page sizes and sequence cursors for list RPCs.
package pagination

import (
	"fmt"
	"strconv"
	"strings"
)

// PageSizeConfig configures page size normalization.
type PageSizeConfig struct {
	Default int
	Max     int
}

// ClampPageSize applies defaults and limits for page sizes.
func ClampPageSize(value int32, cfg PageSizeConfig) int {
	pageSize := int(value)
	if pageSize <= 0 {
		pageSize = cfg.Default
	}
	if cfg.Max > 0 && pageSize > cfg.Max {
		pageSize = cfg.Max
	}
	if pageSize <= 0 {
		pageSize = 1
	}
	return pageSize
}

const seqTokenPrefix = "seq:"

// EncodeSeqToken returns the page token resuming after seq. A zero seq means
// there is no next page.
func EncodeSeqToken(seq int64) string {
	if seq <= 0 {
		return ""
	}
	return seqTokenPrefix + strconv.FormatInt(seq, 10)
}

// DecodeSeqToken parses a token produced by EncodeSeqToken. The empty token
// starts from the beginning.
func DecodeSeqToken(token string) (int64, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, nil
	}
	raw, ok := strings.CutPrefix(token, seqTokenPrefix)
	if !ok {
		return 0, fmt.Errorf("invalid page token: %q", token)
	}
	seq, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || seq <= 0 {
		return 0, fmt.Errorf("invalid page token: %q", token)
	}
	return seq, nil
}
