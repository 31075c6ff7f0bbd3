package search

import "math"

// Cosine 余弦相似度 dot(a,b) / (‖a‖·‖b‖)
// 零范数向量返回 0 而不是除零；结果不做 [0,1] 截断，
// 浮点误差可能让值略微越界，调用方需要容忍
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
