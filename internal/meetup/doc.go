// Package meetup extracts structured event and group data from Meetup
// pages. Meetup has no public contract for these pages, so every
// extraction is best-effort: a field that cannot be located is omitted
// from the result rather than raised as an error. Markup-specific
// selectors are carried as data so they can be adjusted when the site
// changes layout.
package meetup
