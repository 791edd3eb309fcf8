package scoring

import (
	"math"
	"regexp"
	"strings"
)

// stopWords 语义比对前剔除的英文虚词
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "has": true, "have": true,
	"in": true, "is": true, "it": true, "its": true, "of": true, "on": true,
	"or": true, "our": true, "that": true, "the": true, "their": true,
	"this": true, "to": true, "was": true, "we": true, "were": true,
	"will": true, "with": true, "you": true, "your": true,
}

var termSplitRe = regexp.MustCompile(`[^a-z0-9+#.]+`)

// termVector 构建unigram+bigram词袋向量（去停用词）
func termVector(text string) map[string]float64 {
	vector := make(map[string]float64)

	var tokens []string
	for _, tok := range termSplitRe.Split(strings.ToLower(text), -1) {
		tok = strings.Trim(tok, ".")
		if tok == "" || stopWords[tok] {
			continue
		}
		tokens = append(tokens, tok)
	}

	for i, tok := range tokens {
		vector[tok]++
		if i+1 < len(tokens) {
			vector[tok+" "+tokens[i+1]]++
		}
	}
	return vector
}

// cosine 两个稀疏向量的余弦相似度，任一为零向量时为0
func cosine(a, b map[string]float64) float64 {
	var dot, normA, normB float64
	for term, av := range a {
		normA += av * av
		if bv, ok := b[term]; ok {
			dot += av * bv
		}
	}
	for _, bv := range b {
		normB += bv * bv
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// SemanticSimilarity 简历文本与岗位描述的词袋余弦相似度，缩放到0-100
func SemanticSimilarity(resumeText, jobDescription string) float64 {
	similarity := cosine(termVector(resumeText), termVector(jobDescription))
	return round2(similarity * 100)
}
