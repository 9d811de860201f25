// Package textutil provides small text cleanup helpers for scraped store data.
package textutil
