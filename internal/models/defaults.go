package models

import "time"

// DefaultCategories returns the built-in category set. "all" is reserved and
// cannot be deleted; "thumbnail" partitions widescreen items away from the
// square default view.
func DefaultCategories() []Category {
	return []Category{
		{ID: CategoryAll, Name: "All Prompts", Icon: "LayoutGrid"},
		{ID: CategoryThumbnail, Name: "Thumbnails", Icon: "Monitor"},
		{ID: "photorealistic", Name: "Photorealistic", Icon: "Camera"},
		{ID: "anime", Name: "Anime & Manga", Icon: "Zap"},
		{ID: "3d-render", Name: "3D Render", Icon: "Box"},
		{ID: "painting", Name: "Digital Painting", Icon: "Brush"},
		{ID: "concept", Name: "Concept Art", Icon: "PenTool"},
	}
}

// SeedItems returns the starter catalog used when no stored state exists.
func SeedItems() []CatalogItem {
	now := time.Now().UnixMilli()
	return []CatalogItem{
		{
			ID:          "1",
			Title:       "Neon Cyberpunk City",
			Description: "Rain-soaked cyberpunk street at night, neon signage mirrored on wet asphalt, holographic billboards on towering blocks, cinematic lighting, photorealistic, 8k.",
			ImageURL:    "https://picsum.photos/id/230/800/800",
			CategoryID:  "photorealistic",
			Tags:        []string{"cyberpunk", "city", "neon", "rain", "night"},
			CreatedAt:   now,
			Format:      FormatSquare,
		},
		{
			ID:          "2",
			Title:       "Ethereal Forest Spirit",
			Description: "Glowing spirit deer in a mist-laced forest, bioluminescent undergrowth, soft magical haze, fantasy painting style, intricate detail, shallow depth of field.",
			ImageURL:    "https://picsum.photos/id/324/800/800",
			CategoryID:  "painting",
			Tags:        []string{"forest", "fantasy", "magic", "animal"},
			CreatedAt:   now,
			Format:      FormatSquare,
		},
		{
			ID:          "3",
			Title:       "Abstract Geometric Shapes",
			Description: "Floating 3D geometry in a void, gradient glass textures, ray-traced studio lighting, minimal abstract composition.",
			ImageURL:    "https://picsum.photos/id/20/800/800",
			CategoryID:  "3d-render",
			Tags:        []string{"abstract", "3d", "geometry", "colorful"},
			CreatedAt:   now,
			Format:      FormatSquare,
		},
	}
}

// DefaultState builds a repository root populated entirely from defaults.
func DefaultState() *State {
	return &State{
		Items:         SeedItems(),
		Categories:    DefaultCategories(),
		Messages:      []ContactMessage{},
		Analytics:     []int64{},
		Wishlist:      []string{},
		SocialLinks:   []SocialLink{},
		AdminUserHash: DefaultUserHash,
		AdminPassHash: DefaultPassHash,
		AdminPINHash:  DefaultPINHash,
	}
}
