// Package policy decides whether a candidate URL may enter the crawl frontier.
//
// A Policy is built from Rules, a plain table of domain suffixes, file
// extensions, trap substrings and thresholds. The decision itself is a fixed
// sequence of independent checks over that table:
//
//  1. scheme must be listed (http, https)
//  2. host must end with a listed domain suffix, or equal the bare apex
//  3. the path must not end with a blocked file extension
//  4. no run of identical consecutive path segments (/a/a/a/...)
//  5. calendar or event paths must not carry a query string
//  6. no daily archive date (/YYYY-MM-DD)
//  7. the URL must not exceed the maximum length
//  8. no directory listing sort query (C= together with O=)
//  9. no dynamic, administrative or repository browsing substring
//
// The first failing rule rejects. Check reports which rule it was, so hosts
// can count rejections; IsAdmissible is the plain boolean form.
//
// A Policy holds no mutable state and is safe for concurrent use.
package policy
