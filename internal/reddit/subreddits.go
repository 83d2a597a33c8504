package reddit

// ImplicitSubreddits is the pool /random_reddit always draws from.
var ImplicitSubreddits = []string{
	"aww",
	"pics",
	"art",
	"itookapicture",
	"earthporn",
	"foodporn",
	"cityporn",
	"spaceporn",
	"natureisbeautiful",
	"cats",
	"rarepuppers",
	"animewallpaper",
	"moescape",
	"patchuu",
	"awwnime",
	"wholesomeanimemes",
	"pixelart",
	"wallpapers",
	"cozyplaces",
	"photographs",
}

// ExplicitSubreddits joins the pool only when the requester's NSFW mode is on.
var ExplicitSubreddits = []string{
	"nsfw",
	"realgirls",
	"gonewild",
	"rule34",
	"hentai",
	"ecchi",
}
