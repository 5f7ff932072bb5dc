// Package browser drives a real browser through Playwright.
//
// A SessionManager owns the Playwright runtime and the browsers it launches.
// Each Session wraps one page and implements element.Driver: Goto navigates
// relative to the session's base URL and Locate returns lazy locator-backed
// elements for the text, radio, checkbox, select and button kinds. Binding a
// Session to a page.View makes keyword assignments act on the live page.
package browser
