package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSemanticSimilarityIdentical(t *testing.T) {
	text := "python developer building backend services"
	assert.Equal(t, 100.0, SemanticSimilarity(text, text))
}

func TestSemanticSimilarityDisjoint(t *testing.T) {
	assert.Equal(t, 0.0, SemanticSimilarity("python backend developer", "marketing campaign manager"))
}

func TestSemanticSimilarityEmpty(t *testing.T) {
	assert.Equal(t, 0.0, SemanticSimilarity("", "python developer"))
	assert.Equal(t, 0.0, SemanticSimilarity("python developer", ""))
	// 全部是停用词的文本退化为零向量
	assert.Equal(t, 0.0, SemanticSimilarity("the of and", "python developer"))
}

func TestSemanticSimilarityPartialOverlap(t *testing.T) {
	score := SemanticSimilarity(
		"python developer with redis experience",
		"python developer with kafka experience",
	)
	assert.Greater(t, score, 0.0)
	assert.Less(t, score, 100.0)
}

func TestSemanticSimilarityStopWordsIgnored(t *testing.T) {
	// 停用词不应贡献相似度
	withStops := SemanticSimilarity("python is a developer", "python developer")
	noStops := SemanticSimilarity("python developer", "python developer")
	assert.LessOrEqual(t, withStops, noStops)
}
