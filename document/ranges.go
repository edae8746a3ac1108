package document

// Операции над диапазонами текстовой ноды. Все функции чистые:
// исходный слайс не мутируется, возвращается новый.

// InsertIntoRanges вставляет текст со своим набором marks по смещению.
// При nil marks текст наследует форматирование диапазона, в который попадает.
func InsertIntoRanges(ranges []Range, offset int, text string, marks MarkSet) []Range {
	if text == "" {
		return ranges
	}
	out := make([]Range, 0, len(ranges)+2)
	pos := 0
	inserted := false
	for _, r := range ranges {
		end := pos + len(r.Text)
		if !inserted && offset >= pos && offset <= end {
			at := offset - pos
			if marks == nil || r.Marks.Equal(marks) {
				out = append(out, Range{Text: r.Text[:at] + text + r.Text[at:], Marks: r.Marks})
			} else {
				if at > 0 {
					out = append(out, Range{Text: r.Text[:at], Marks: r.Marks})
				}
				out = append(out, Range{Text: text, Marks: marks})
				if at < len(r.Text) {
					out = append(out, Range{Text: r.Text[at:], Marks: r.Marks})
				}
			}
			inserted = true
		} else {
			out = append(out, r)
		}
		pos = end
	}
	if !inserted {
		out = append(out, Range{Text: text, Marks: marks})
	}
	return mergeRanges(out)
}

// DeleteFromRanges удаляет символы [from, to).
func DeleteFromRanges(ranges []Range, from, to int) []Range {
	if from >= to {
		return ranges
	}
	out := make([]Range, 0, len(ranges))
	pos := 0
	for _, r := range ranges {
		end := pos + len(r.Text)
		lo := max(from, pos)
		hi := min(to, end)
		if lo >= hi {
			out = append(out, r)
		} else {
			kept := r.Text[:lo-pos] + r.Text[hi-pos:]
			if kept != "" {
				out = append(out, Range{Text: kept, Marks: r.Marks})
			}
		}
		pos = end
	}
	if len(out) == 0 {
		out = []Range{{}}
	}
	return mergeRanges(out)
}

// UpdateMarks применяет fn к marks символов [from, to), расщепляя диапазоны по границам.
func UpdateMarks(ranges []Range, from, to int, fn func(MarkSet) MarkSet) []Range {
	if from >= to {
		return ranges
	}
	out := make([]Range, 0, len(ranges)+2)
	pos := 0
	for _, r := range ranges {
		end := pos + len(r.Text)
		lo := max(from, pos)
		hi := min(to, end)
		if lo >= hi {
			out = append(out, r)
			pos = end
			continue
		}
		if lo > pos {
			out = append(out, Range{Text: r.Text[:lo-pos], Marks: r.Marks})
		}
		out = append(out, Range{Text: r.Text[lo-pos : hi-pos], Marks: fn(r.Marks)})
		if hi < end {
			out = append(out, Range{Text: r.Text[hi-pos:], Marks: r.Marks})
		}
		pos = end
	}
	return mergeRanges(out)
}

// RangesHaveMark сообщает, имеет ли каждый символ [from, to) данный mark.
// Пустой интервал считается размеченным.
func RangesHaveMark(ranges []Range, from, to int, m Mark) bool {
	pos := 0
	for _, r := range ranges {
		end := pos + len(r.Text)
		if max(from, pos) < min(to, end) && !r.Marks.Has(m) {
			return false
		}
		pos = end
	}
	return true
}

// mergeRanges склеивает соседние диапазоны с одинаковыми marks
// и выбрасывает пустые.
func mergeRanges(ranges []Range) []Range {
	out := make([]Range, 0, len(ranges))
	for _, r := range ranges {
		if r.Text == "" && len(ranges) > 1 {
			continue
		}
		if len(out) > 0 && out[len(out)-1].Marks.Equal(r.Marks) {
			out[len(out)-1].Text += r.Text
			continue
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		out = []Range{{}}
	}
	return out
}
