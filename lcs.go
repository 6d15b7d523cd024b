package jsondiff

// Pair is a matched pair of positions, A indexes the left sequence and B the
// right one
type Pair struct {
	A, B int
}

// LCS computes a longest common subsequence of a and b, returning the matched
// index pairs in increasing order. eq decides element equality. The table is
// O(len(a)*len(b)) in time & space, fine for document-sized arrays
//
// when the table allows more than one alignment, the walk back from the end
// prefers dropping an element of a, then dropping an element of b, and only
// then records a match
func LCS[T any](a, b []T, eq func(x, y T) bool) []Pair {
	m, n := len(a), len(b)
	if m == 0 || n == 0 {
		return nil
	}

	c := make([][]int, m+1)
	for i := range c {
		c[i] = make([]int, n+1)
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if eq(a[i-1], b[j-1]) {
				c[i][j] = c[i-1][j-1] + 1
			} else if c[i-1][j] >= c[i][j-1] {
				c[i][j] = c[i-1][j]
			} else {
				c[i][j] = c[i][j-1]
			}
		}
	}

	pairs := make([]Pair, 0, c[m][n])
	for i, j := m, n; i > 0 && j > 0; {
		switch {
		case c[i][j] == c[i-1][j]:
			i--
		case c[i][j] == c[i][j-1]:
			j--
		default:
			pairs = append(pairs, Pair{A: i - 1, B: j - 1})
			i--
			j--
		}
	}

	// backtracking walks from the end
	for l, r := 0, len(pairs)-1; l < r; l, r = l+1, r-1 {
		pairs[l], pairs[r] = pairs[r], pairs[l]
	}
	return pairs
}
