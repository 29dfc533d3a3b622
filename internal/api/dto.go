package api

// movieDTO covers search results, box-office entries and admin picker rows.
// The admin endpoints name the poster posterPath.
type movieDTO struct {
	MovieID    int64   `json:"movieId"`
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	Poster     string  `json:"poster"`
	PosterPath string  `json:"posterPath"`
	ReleasedAt string  `json:"releasedAt"`
	Country    string  `json:"country"`
	Genre      string  `json:"genre"`
	Runtime    string  `json:"runtime"`
	Score      float64 `json:"score"`
	Likes      int     `json:"likes"`
	Reviews    int     `json:"reviews"`
	Rank       int     `json:"rank"`
	ActorName  string  `json:"actorName"`
	Director   string  `json:"director"`
	Plot       string  `json:"plot"`
}

type reviewUserDTO struct {
	Nickname       string `json:"nickname"`
	ProfileImage   string `json:"profileImage"`
	MainBadgeImage string `json:"mainBadgeImage"`
}

type reviewDTO struct {
	ReviewID   int64          `json:"reviewId"`
	Content    string         `json:"content"`
	MovieScore float64        `json:"movieScore"`
	ReviewLike int            `json:"reviewLike"`
	Comments   int            `json:"comments"`
	Spoiler    bool           `json:"spoiler"`
	CreatedAt  string         `json:"createdAt"`
	User       *reviewUserDTO `json:"user"`
}

type likedMovieDTO struct {
	Title      string `json:"title"`
	Poster     string `json:"poster"`
	ReleasedAt string `json:"releasedAt"`
	Country    string `json:"country"`
	Likes      int    `json:"likes"`
	Reviews    int    `json:"reviews"`
}

type badgeEventDTO struct {
	Action    string `json:"action"`
	BadgeName string `json:"badgeName"`
	Point     int    `json:"point"`
	CreatedAt string `json:"createdAt"`
}

type matchUpSummaryDTO struct {
	MatchUpID    int64  `json:"matchUpId"`
	MatchUpTitle string `json:"matchUpTitle"`
	StartAt      string `json:"startAt"`
	EndAt        string `json:"endAt"`
}

type matchUpMovieDTO struct {
	MovieID    int64  `json:"movieId"`
	MovieTitle string `json:"movieTitle"`
	Title      string `json:"title"`
	Poster     string `json:"poster"`
	PosterPath string `json:"posterPath"`
}

// matchUpDTO is the admin record. Older responses name the movie list
// movieMatchInfo instead of matchUpMovies.
type matchUpDTO struct {
	MatchID        int64             `json:"matchId"`
	MatchUpTitle   string            `json:"matchUpTitle"`
	MatchUpType    string            `json:"matchUpType"`
	StartTime      string            `json:"startTime"`
	EndTime        string            `json:"endTime"`
	MatchUpMovies  []matchUpMovieDTO `json:"matchUpMovies"`
	MovieMatchInfo []matchUpMovieDTO `json:"movieMatchInfo"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
