package locale

// tagTable maps the English genre/style/mood vocabulary written by Plex's
// default metadata agents to Chinese equivalents. Lookups are exact-string
// and case-sensitive: both "Film-noir" and "Film-Noir" appear upstream.
var tagTable = map[string]string{
	"Anime":           "动画",
	"Action":          "动作",
	"Mystery":         "悬疑",
	"Tv Movie":        "电视电影",
	"Animation":       "动画",
	"Crime":           "犯罪",
	"Family":          "家庭",
	"Fantasy":         "奇幻",
	"Disaster":        "灾难",
	"Adventure":       "冒险",
	"Short":           "短片",
	"Horror":          "恐怖",
	"History":         "历史",
	"Suspense":        "悬疑",
	"Biography":       "传记",
	"Sport":           "运动",
	"Comedy":          "喜剧",
	"Romance":         "爱情",
	"Thriller":        "惊悚",
	"Documentary":     "纪录",
	"Indie":           "独立",
	"Music":           "音乐",
	"Sci-Fi":          "科幻",
	"Western":         "西部",
	"Children":        "儿童",
	"Martial Arts":    "武侠",
	"Drama":           "剧情",
	"War":             "战争",
	"Musical":         "歌舞",
	"Film-noir":       "黑色",
	"Science Fiction": "科幻",
	"Film-Noir":       "黑色",
	"Food":            "饮食",
	"War & Politics":  "战争与政治",
	"Sci-Fi & Fantasy": "科幻",
	"Mini-Series":     "迷你剧",
	"Reality":         "真人秀",
	"Home and Garden": "家居与园艺",
	"Game Show":       "游戏",
	"Awards Show":     "颁奖典礼",
	"News":            "新闻",
	"Talk":            "访谈",
	"Talk Show":       "脱口秀",
	"Travel":          "旅行",
	"Soap":            "肥皂剧",
}

// TranslateTag returns the localized equivalent of a facet value.
// The second return is false for anything outside the table; callers must
// leave such tags untouched.
func TranslateTag(tag string) (string, bool) {
	zh, ok := tagTable[tag]
	return zh, ok
}
