package templater

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"mangashelf/internal/domain"
	"mangashelf/internal/utils"
)

var templatePattern = regexp.MustCompile(`{(\w+)(:[^}]*)?}`)

// placeholder is the text <.> in options that is replaced by the value.
const placeholder = "<.>"

type Templater struct {
	Manga   domain.Manga
	Chapter domain.Chapter
}

func New(manga domain.Manga, chapter domain.Chapter) *Templater {
	return &Templater{
		Manga:   manga,
		Chapter: chapter,
	}
}

// ExecTemplate expands the placeholders in template:
//
//	{num}          chapter number
//	{num:3}        chapter number with the integer part padded to 3 digits
//	{manga:<.>}    manga title inserted at <.>, nothing when empty
//	{title: - <.>} chapter title inserted at <.>, nothing when empty
//	{pages}        page count
//
// Unknown placeholders are kept as written.
func (t *Templater) ExecTemplate(template string) string {
	return templatePattern.ReplaceAllStringFunc(template, func(match string) string {
		sub := templatePattern.FindStringSubmatch(match)
		name, options := sub[1], strings.TrimPrefix(sub[2], ":")

		switch name {
		case "num":
			return t.number(options)
		case "manga":
			return fill(options, t.Manga.Title)
		case "title":
			return fill(options, t.Chapter.Title)
		case "pages":
			return strconv.Itoa(t.Chapter.PageCount)
		default:
			return match
		}
	})
}

func (t *Templater) number(options string) string {
	width, err := strconv.Atoi(options)
	if err != nil {
		return fmt.Sprintf("%g", t.Chapter.Number)
	}

	return utils.PadFloat(t.Chapter.Number, width)
}

func fill(options, value string) string {
	if value == "" {
		return ""
	}
	if options == "" {
		return value
	}

	return strings.ReplaceAll(options, placeholder, value)
}
