package blog

// Stats summarises a post set for the admin dashboard.
type Stats struct {
	Total    int
	Tech     int
	Personal int
	Hidden   int
}

// ComputeStats counts posts per category and visibility.
func ComputeStats(posts []Post) Stats {
	s := Stats{Total: len(posts)}
	for _, p := range posts {
		switch p.Category {
		case CategoryTech:
			s.Tech++
		case CategoryPersonal:
			s.Personal++
		}
		if !p.Visible() {
			s.Hidden++
		}
	}
	return s
}
