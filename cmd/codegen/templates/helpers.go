package templates

import (
	"strconv"
	"strings"
)

func prefixedStrings(prefix string, count int) string {
	var sb strings.Builder
	for i := 0; i < count; i++ {
		sb.WriteString(prefix)
		sb.WriteString(strconv.Itoa(i))
		if i < count-1 {
			sb.WriteString(", ")
		}
	}
	return sb.String()
}

// sourceParams renders "s0 Readable[T0], s1 Readable[T1], ...".
func sourceParams(count int) string {
	var sb strings.Builder
	for i := 0; i < count; i++ {
		idx := strconv.Itoa(i)
		sb.WriteString("s" + idx + " Readable[T" + idx + "]")
		if i < count-1 {
			sb.WriteString(", ")
		}
	}
	return sb.String()
}

// getArgs renders "Get(get, s0), Get(get, s1), ...".
func getArgs(count int) string {
	var sb strings.Builder
	for i := 0; i < count; i++ {
		sb.WriteString("Get(get, s" + strconv.Itoa(i) + ")")
		if i < count-1 {
			sb.WriteString(", ")
		}
	}
	return sb.String()
}
