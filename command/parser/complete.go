/*
 * RV32 - Command completion.
 *
 * Copyright 2025, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package parser

import "strings"

// CompleteCmd is called to complete a command line during editing.
func CompleteCmd(commandLine string) []string {
	line := cmdLine{line: commandLine}
	name := line.getWord()

	// A complete command word: hand the rest to its completer.
	if !line.isEOL() && line.line[line.pos] == ' ' {
		line.skipSpace()
		match := matchList(name)
		if len(match) != 1 {
			return nil
		}
		if match[0].complete != nil {
			var matches []string
			for _, m := range match[0].complete(&line) {
				matches = append(matches, match[0].name+" "+m)
			}
			return matches
		}
		return nil
	}

	var matches []string
	for _, c := range cmdList {
		if strings.HasPrefix(c.name, name) {
			matches = append(matches, c.name)
		}
	}
	return matches
}

// setComplete completes the option names of set and unset.
func setComplete(line *cmdLine) []string {
	prefix := line.getWord()
	var matches []string
	for _, opt := range setOptions {
		if strings.HasPrefix(opt, prefix) {
			matches = append(matches, opt)
		}
	}
	return matches
}
