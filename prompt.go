package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"mvdan.cc/xurls/v2"
)

// sentinel ends interactive input.
const sentinel = "done"

// promptURLs reads urls from r and calls fn for each, in order. A line may
// hold several whitespace-separated urls; they are handled as soon as the
// line is read. Input ends at the sentinel token, a blank line, or EOF.
func promptURLs(r io.Reader, w io.Writer, fn func(u string)) error {
	sc := bufio.NewScanner(r)

	for {
		fmt.Fprint(w, "url> ")
		if !sc.Scan() {
			fmt.Fprintln(w)
			return sc.Err()
		}

		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			return nil
		}

		for _, f := range fields {
			if strings.EqualFold(f, sentinel) {
				return nil
			}
			fn(f)
		}
	}
}

// readURLFile returns the urls found in the given text file, in order of
// appearance. Only text with an explicit scheme is recognized as a url.
func readURLFile(filename string) ([]string, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	return xurls.Strict().FindAllString(string(b), -1), nil
}
