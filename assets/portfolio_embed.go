package assets

import _ "embed"

// PortfolioHTML is the stock portfolio page used when no page.html is configured.
//
//go:embed portfolio/index.html
var PortfolioHTML string

// DOMShim is the minimal browser object model evaluated inside the script runtime.
// It provides document, window, navigator and localStorage over a JSON tree.
//
//go:embed portfolio/dom.js
var DOMShim string
