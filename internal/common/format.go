package common

import (
	"github.com/privacybydesign/zkrange/big"
)

// ShortInt renders i in decimal, eliding the middle digits of long values so that
// large group elements stay readable in log lines: 1234…5678.
func ShortInt(i *big.Int) string {
	if i == nil {
		return "<nil>"
	}
	s := i.String()
	prefix := 4
	if i.Sign() < 0 {
		prefix++
	}
	if len(s) <= prefix+4+1 {
		return s
	}
	return s[:prefix] + "…" + s[len(s)-4:]
}
