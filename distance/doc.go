// Package distance implements the distance kernels of the HNSW core.
//
// # Supported metrics
//
//   - Euclidean: sqrt(sum((a_i - b_i)^2))
//   - Cosine: 1 - (a·b) / (|a| * |b|), or 1 if either norm is zero
//   - NegDot: -(a·b), for maximum inner-product search
//
// All three are symmetric and pre-validated by callers: kernels assume
// equal-length input and perform no dimension check.
package distance
