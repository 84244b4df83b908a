// Package parse builds blocks from an HTML fragment.
//
// Block elements map onto kinds: p, blockquote, h2-h4, li inside ol or ul,
// hr, and figure, which becomes an image or a video depending on its first
// child. A block's text is the concatenation of its text nodes. Inline
// strong/b, em/i and a[href] elements are restored as markups; other inline
// elements are transparent. Unknown wrappers such as div or section are
// descended into.
package parse
