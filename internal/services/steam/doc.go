// Package steam talks to the three Steam surfaces steameagle depends on: the
// Web API (owned games), the community CDN (library cover art) and the store
// front (user tags scraped from app pages).
//
// Store page requests are throttled with a token bucket because the store
// front rate-limits anonymous scraping aggressively.
package steam
