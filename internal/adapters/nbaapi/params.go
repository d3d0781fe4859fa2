package nbaapi

import "net/url"

const leagueDashTeamStatsPath = "/leaguedashteamstats"

// leagueDashTeamStatsParams is the full query the endpoint insists on; it
// answers 400 or 500 when any of these are missing, even the empty ones.
func leagueDashTeamStatsParams(season, seasonType, perMode string) url.Values {
	v := url.Values{}
	v.Set("Conference", "")
	v.Set("DateFrom", "")
	v.Set("DateTo", "")
	v.Set("Division", "")
	v.Set("GameScope", "")
	v.Set("GameSegment", "")
	v.Set("Height", "")
	v.Set("ISTRound", "")
	v.Set("LastNGames", "0")
	v.Set("LeagueID", "00")
	v.Set("Location", "")
	v.Set("MeasureType", "Base")
	v.Set("Month", "0")
	v.Set("OpponentTeamID", "0")
	v.Set("Outcome", "")
	v.Set("PORound", "0")
	v.Set("PaceAdjust", "N")
	v.Set("PerMode", perMode)
	v.Set("Period", "0")
	v.Set("PlayerExperience", "")
	v.Set("PlayerPosition", "")
	v.Set("PlusMinus", "N")
	v.Set("Rank", "N")
	v.Set("Season", season)
	v.Set("SeasonSegment", "")
	v.Set("SeasonType", seasonType)
	v.Set("ShotClockRange", "")
	v.Set("StarterBench", "")
	v.Set("TeamID", "0")
	v.Set("TwoWay", "0")
	v.Set("VsConference", "")
	v.Set("VsDivision", "")
	return v
}
