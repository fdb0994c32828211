package news

// Visible narrows the full result set down to the articles the
// dashboard shows: dismissed titles are dropped, then the list is cut
// to maxCount. When nothing survives, a single placeholder carrying
// emptyMessage is returned so the news panel never renders blank.
func Visible(articles []Article, dismissed map[string]struct{}, maxCount int, emptyMessage string) []Article {
	visible := make([]Article, 0, maxCount)
	for _, a := range articles {
		if _, gone := dismissed[a.Title]; gone {
			continue
		}
		visible = append(visible, a)
		if len(visible) == maxCount {
			break
		}
	}
	if len(visible) == 0 {
		return []Article{{Body: emptyMessage}}
	}
	return visible
}
