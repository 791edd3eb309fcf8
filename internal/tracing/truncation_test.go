package tracing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskPII(t *testing.T) {
	assert.Equal(t, "", MaskPII(""))
	assert.Equal(t, "*", MaskPII("a"))
	assert.Equal(t, "a*", MaskPII("ab"))
	assert.Equal(t, "a**d", MaskPII("abcd"))
	assert.Equal(t, "my***************om", MaskPII("myemail@example.com"))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))

	long := strings.Repeat("x", 300)
	truncated := TruncateString(long, 21)
	assert.Equal(t, 21, len([]rune(truncated)))
	assert.Contains(t, truncated, "...")
}

func TestSafeAttributeValue(t *testing.T) {
	// 属性名命中敏感关键字时对值做掩码
	masked := SafeAttributeValue("candidate.email", "ravi@example.com", DefaultMaxLength)
	assert.NotContains(t, masked, "ravi@example")
	assert.Contains(t, masked, "*")

	// 普通属性按长度截断
	plain := SafeAttributeValue("queue", strings.Repeat("q", 300), 20)
	assert.LessOrEqual(t, len([]rune(plain)), 20)
}
