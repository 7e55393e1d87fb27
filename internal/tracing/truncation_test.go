package tracing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskPII(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"", ""},
		{"a", "*"},
		{"ab", "a*"},
		{"abcd", "a**d"},
		{"13812345678", "13*******78"},
		{"myemail@example.com", "my" + strings.Repeat("*", 15) + "om"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, MaskPII(tt.in), "MaskPII(%q)", tt.in)
	}
}

func TestSafeAttributeValue(t *testing.T) {
	// 属性名命中敏感关键字时掩码
	assert.Equal(t, "ja"+strings.Repeat("*", 12)+"om", SafeAttributeValue("candidate.email", "jane@example.com", DefaultMaxLength))
	assert.Equal(t, "Ja****oe", SafeAttributeValue("姓名", "Jane Doe", DefaultMaxLength))

	// 普通属性只做长度截断
	long := strings.Repeat("x", 300)
	safe := SafeAttributeValue("db.statement", long, DefaultMaxLength)
	assert.LessOrEqual(t, len(safe), DefaultMaxLength)
	assert.Contains(t, safe, "...")
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10), "短字符串原样返回")

	truncated := TruncateString("abcdefghijklmnop", 9)
	assert.Equal(t, "abc...nop", truncated)

	assert.Equal(t, "ab", TruncateString("abcdef", 2))
}
