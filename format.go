package jsondiff

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// FormatPrettyString is a convenice wrapper that outputs to a string instead of
// an io.Writer
func FormatPrettyString(res *Result, colorTTY bool) (string, error) {
	buf := &bytes.Buffer{}
	if err := FormatPretty(buf, res, colorTTY); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FormatPretty writes one line per change to w, sorted by path. if colorTTY is
// true it will add
// red "-" for removals
// green "+" for additions
// blue "~" for replacements
// a run of array removals prints a line per removed value
func FormatPretty(w io.Writer, res *Result, colorTTY bool) error {
	var colorMap map[ChangeType]string

	if colorTTY {
		colorMap = map[ChangeType]string{
			ChangeType("close"): "\x1b[0m", // end color tag

			ChangeAdd:     "\x1b[32m", // green
			ChangeRemove:  "\x1b[31m", // red
			ChangeReplace: "\x1b[34m", // blue
		}
	}

	closeColor := colorMap[ChangeType("close")]
	for _, c := range res.Changes() {
		var values []interface{}
		switch c.Type {
		case ChangeAdd:
			values = []interface{}{c.New}
		case ChangeRemove:
			values = c.Removed
		case ChangeReplace:
			old, err := json.Marshal(c.Old)
			if err != nil {
				return err
			}
			data, err := json.Marshal(c.New)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "%s%s %s: %s -> %s%s\n", colorMap[c.Type], c.Type, c.Path, old, data, closeColor); err != nil {
				return err
			}
			continue
		}

		for _, v := range values {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "%s%s %s: %s%s\n", colorMap[c.Type], c.Type, c.Path, data, closeColor); err != nil {
				return err
			}
		}
	}
	return nil
}

// FormatPrettyStats prints a string of stats info
func FormatPrettyStats(diffStat *Stats) string {
	return formatStats(diffStat, false)
}

// FormatPrettyStatsColor prints a string of stats info with ANSI colors
func FormatPrettyStatsColor(diffStat *Stats) string {
	return formatStats(diffStat, true)
}

func formatStats(ds *Stats, color bool) string {
	var (
		neutralColor, addColor, removeColor, replaceColor, closeColor string
	)

	if ds == nil {
		return ""
	}

	if color {
		neutralColor = "\x1b[37m"
		addColor = "\x1b[32m"
		removeColor = "\x1b[31m"
		replaceColor = "\x1b[34m"
		closeColor = "\x1b[0m"
	}

	buf := &bytes.Buffer{}

	elsColor := addColor
	change := ds.NodeChange()
	elementsWord := "elements"
	sign := "+"
	if change < 0 {
		elsColor = removeColor
		sign = ""
	} else if change == 0 {
		elsColor = neutralColor
		sign = ""
	}
	if change == 1 || change == -1 {
		elementsWord = "element"
	}

	fmt.Fprintf(buf, "%s%s%d %s%s%s%s.",
		elsColor, sign, change, closeColor,
		neutralColor, elementsWord, closeColor,
	)
	fmt.Fprintf(buf, " %s%d %s.%s", addColor, ds.Adds, plural(ds.Adds, "add", "adds"), closeColor)
	fmt.Fprintf(buf, " %s%d %s.%s", removeColor, ds.Removes, plural(ds.Removes, "remove", "removes"), closeColor)
	fmt.Fprintf(buf, " %s%d %s.%s", replaceColor, ds.Replaces, plural(ds.Replaces, "replace", "replaces"), closeColor)
	buf.WriteRune('\n')

	return buf.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
