package search

import "fmt"

// Labels resolve the strings shown and searched for a represented object.
// Nil members fall back: Display to fmt.Sprint, Title to Display, Subtitle
// to none.
type Labels struct {
	Display  func(object any) string
	Title    func(object any) string
	Subtitle func(object any) (string, bool)
}

func (l Labels) DisplayString(object any) string {
	if l.Display != nil {
		return l.Display(object)
	}
	return fmt.Sprint(object)
}

func (l Labels) TitleString(object any) string {
	if l.Title != nil {
		return l.Title(object)
	}
	return l.DisplayString(object)
}

func (l Labels) SubtitleString(object any) (string, bool) {
	if l.Subtitle != nil {
		return l.Subtitle(object)
	}
	return "", false
}
