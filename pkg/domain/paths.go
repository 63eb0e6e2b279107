package domain

// Canonical paths for catalog entities.
const (
	AuthorsPath       = "/authors"
	BooksPath         = "/books"
	GenresPath        = "/genres"
	BookInstancesPath = "/bookinstances"
)

func AuthorPath(id string) string       { return AuthorsPath + "/" + id }
func BookPath(id string) string         { return BooksPath + "/" + id }
func GenrePath(id string) string        { return GenresPath + "/" + id }
func BookInstancePath(id string) string { return BookInstancesPath + "/" + id }
