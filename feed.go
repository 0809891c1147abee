package folio

import (
	"encoding/xml"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/content"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	Categories  []string `xml:"category"`
	GUID        rssGUID  `xml:"guid"`
}

type rssGUID struct {
	Value       string `xml:",chardata"`
	IsPermaLink bool   `xml:"isPermaLink,attr"`
}

// renderRSS publishes the project list as a feed, newest project last as
// on the page.
func (a *App) renderRSS(c echo.Context, cnt content.Content, updated time.Time) error {
	base := a.Config.URL
	home := BuildURL(base)
	items := make([]rssItem, 0, len(cnt.Projects))
	for i, p := range cnt.Projects {
		link := absoluteURL(base, p.Link)
		if link == "" {
			link = home + "#projects"
		}
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        link,
			Description: p.Description,
			Categories:  p.Tech,
			GUID:        rssGUID{Value: projectGUID(home, i, p)},
		})
	}
	title := a.Config.Name
	if name := cnt.PersonalInfo.Name; name != "" {
		title = name + " · Projects"
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:         title,
			Link:          home,
			Description:   a.Config.Description,
			LastBuildDate: updated.UTC().Format(time.RFC1123Z),
			Items:         items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}

// projectGUID is stable while a project keeps its title.
func projectGUID(home string, i int, p content.Project) string {
	slug := Slugify(p.Title)
	if slug == "" {
		slug = strconv.Itoa(i + 1)
	}
	return home + "#project-" + slug
}
