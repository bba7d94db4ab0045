// Package textdist computes minimum-edit-distance between strings using
// classic dynamic programming.
package textdist

// Distance returns the Levenshtein distance between a and b: the minimum
// number of single-rune insertions, deletions, and substitutions needed to
// turn a into b.
//
// It evaluates the same recurrence as Matrix but keeps only two rows of the
// table, so memory stays O(min side) regardless of input length.
func Distance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)

	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1]
			} else {
				curr[j] = 1 + min3(prev[j], curr[j-1], prev[j-1])
			}
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

// Matrix returns the full (m+1)x(n+1) dynamic-programming table for the
// edit distance between a and b, where m and n are the rune lengths.
//
// Base cases: dp[i][0] = i and dp[0][j] = j. Recurrence: dp[i][j] equals
// dp[i-1][j-1] when the runes match, otherwise 1 + the minimum of deletion
// (dp[i-1][j]), insertion (dp[i][j-1]), and substitution (dp[i-1][j-1]).
// The distance is the bottom-right cell.
func Matrix(a, b string) [][]int {
	ra := []rune(a)
	rb := []rune(b)

	dp := make([][]int, len(ra)+1)
	for i := range dp {
		dp[i] = make([]int, len(rb)+1)
		dp[i][0] = i
	}
	for j := 0; j <= len(rb); j++ {
		dp[0][j] = j
	}

	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				dp[i][j] = dp[i-1][j-1]
			} else {
				dp[i][j] = 1 + min3(dp[i-1][j], dp[i][j-1], dp[i-1][j-1])
			}
		}
	}

	return dp
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
