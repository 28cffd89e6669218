package automaton

import "strings"

// Words returns every word over symbols of length 0 to maxLen, shortest first.
func Words(symbols []*Input, maxLen int) [][]*Input {
	res := [][]*Input{{}}
	layer := res
	for l := 0; l < maxLen; l++ {
		var next [][]*Input
		for _, w := range layer {
			for _, s := range symbols {
				next = append(next, append(w[:len(w):len(w)], s))
			}
		}
		res = append(res, next...)
		layer = next
	}
	return res
}

// ShowWord joins the symbol names of word with spaces, or returns "ε".
func ShowWord(word []*Input) string {
	if len(word) == 0 {
		return Epsilon.Name
	}
	names := make([]string, len(word))
	for i, in := range word {
		names[i] = in.Name
	}
	return strings.Join(names, " ")
}
