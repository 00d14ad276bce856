package chat

// MaxOutputTokens caps the length of every response. LaTeX for a single
// screenshot fits comfortably.
const MaxOutputTokens = 1024
