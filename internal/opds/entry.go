package opds

import (
	"strconv"
	"time"

	"github.com/bcorrigan/shelfcontrol/internal/model"
)

// BookEntry converts an indexed book into an OPDS acquisition entry, with
// an acquisition link to its file download and, when a cover is known, a
// cover image link.
func BookEntry(bm model.BookMetadata, downloadHref, coverHref string) Entry {
	e := Entry{
		ID:        "urn:shelfcontrol:book:" + strconv.FormatInt(bm.ID, 10),
		Title:     Text{Value: bm.Title},
		Updated:   AtomDate{Time: modTimeOrNow(bm.ModTime)},
		Publisher: bm.Publisher,
		Published: bm.PubDate,
	}
	if bm.Creator != "" {
		e.Authors = append(e.Authors, Author{Name: bm.Creator})
	}
	if bm.Description != "" {
		e.Summary = &Text{Type: "html", Value: bm.Description}
	}
	e.Links = append(e.Links, Link{
		Rel:  RelAcquisitionOpen,
		Href: downloadHref,
		Type: MIMEEPub,
	})
	if coverHref != "" {
		mime := bm.CoverMIME
		if mime == "" {
			mime = "image/jpeg"
		}
		e.Links = append(e.Links, Link{Rel: RelCover, Href: coverHref, Type: mime})
		e.Links = append(e.Links, Link{Rel: RelThumbnail, Href: coverHref, Type: mime})
	}
	return e
}

func modTimeOrNow(unix int64) time.Time {
	if unix <= 0 {
		return time.Now()
	}
	return time.Unix(unix, 0).UTC()
}
