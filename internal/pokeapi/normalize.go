package pokeapi

import "encoding/json"

type localizedName struct {
	Name string `json:"name"`
}

type rawSpecies struct {
	Names       []localizedName `json:"pokemonspeciesnames"`
	CaptureRate *int            `json:"capture_rate"`
}

type rawSprite struct {
	// jsonb in the upstream schema; usually a string or null.
	Sprites json.RawMessage `json:"sprites"`
}

type rawType struct {
	Type *struct {
		Names []localizedName `json:"typenames"`
	} `json:"type"`
}

type rawStat struct {
	BaseStat int `json:"base_stat"`
	Stat     *struct {
		Name string `json:"name"`
	} `json:"stat"`
}

type rawPokemon struct {
	ID      json.Number `json:"id"`
	Species *rawSpecies `json:"pokemonspecy"`
	Sprites []rawSprite `json:"pokemonsprites"`
	Types   []rawType   `json:"pokemontypes"`
	Weight  *int        `json:"weight"`
	Height  *int        `json:"height"`
	Stats   []rawStat   `json:"pokemonstats"`
}

type listData struct {
	Pokemon   []rawPokemon `json:"pokemon"`
	Aggregate *struct {
		Aggregate *struct {
			Count int `json:"count"`
		} `json:"aggregate"`
	} `json:"pokemon_aggregate"`
}

type detailData struct {
	Pokemon []rawPokemon `json:"pokemon"`
}

func normalizeList(data listData) *ListResult {
	res := &ListResult{Items: make([]ListItem, 0, len(data.Pokemon))}
	for _, p := range data.Pokemon {
		res.Items = append(res.Items, normalizeItem(p))
	}
	if data.Aggregate != nil && data.Aggregate.Aggregate != nil {
		res.TotalCount = data.Aggregate.Aggregate.Count
	}
	return res
}

func normalizeItem(p rawPokemon) ListItem {
	item := ListItem{
		ID:     p.ID.String(),
		Types:  []string{},
		Sprite: firstSprite(p.Sprites),
	}
	if p.Species != nil && len(p.Species.Names) > 0 {
		item.Name = p.Species.Names[0].Name
	}
	for _, t := range p.Types {
		if t.Type == nil || len(t.Type.Names) == 0 || t.Type.Names[0].Name == "" {
			continue
		}
		item.Types = append(item.Types, t.Type.Names[0].Name)
	}
	return item
}

func normalizeDetail(p rawPokemon) *Detail {
	d := &Detail{
		ListItem: normalizeItem(p),
		Weight:   p.Weight,
		Height:   p.Height,
		Stats:    make([]Stat, 0, len(p.Stats)),
	}
	if p.Species != nil {
		d.CaptureRate = p.Species.CaptureRate
	}
	for _, s := range p.Stats {
		stat := Stat{BaseValue: s.BaseStat}
		if s.Stat != nil {
			stat.Name = s.Stat.Name
		}
		d.Stats = append(d.Stats, stat)
	}
	return d
}

func firstSprite(sprites []rawSprite) string {
	if len(sprites) == 0 {
		return ""
	}
	var url string
	if err := json.Unmarshal(sprites[0].Sprites, &url); err != nil {
		return ""
	}
	return url
}
