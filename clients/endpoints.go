package clients

const (
	// Paths, relative to the server base URL.
	epGames       = "api/games"
	epSpectate    = "api/spectate"
	epGame        = "api/games/%s" // game code
	epBegin       = "api/games/%s/begin"
	epWordStatus  = "api/games/%s/words"
	epSetWord     = "api/games/%s/word"
	epGuess       = "api/games/%s/guess"
	epChangeWord  = "api/games/%s/change-word"
	epChat        = "api/games/%s/chat"
	epAIPickWords = "api/games/%s/ai/pick-words"
	epAIChange    = "api/games/%s/ai/change-word"
	epAIGuess     = "api/games/%s/ai/guess"
)
