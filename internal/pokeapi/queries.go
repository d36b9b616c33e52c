package pokeapi

const spriteArtworkPath = "other.official-artwork.front_default"

const listOperation = "GetPokemons"

// listDocument fetches one page of creatures whose localized species name
// matches $search, plus the aggregate count for the same filter.
const listDocument = `query GetPokemons($search: String, $first: Int, $offset: Int, $lang: String!) {
  pokemon(
    limit: $first
    offset: $offset
    order_by: { id: asc }
    where: {
      pokemonspecy: {
        pokemonspeciesnames: { language: { name: { _eq: $lang } }, name: { _iregex: $search } }
      }
    }
  ) {
    id
    pokemonspecy {
      pokemonspeciesnames(where: { language: { name: { _eq: $lang } } }) {
        name
      }
    }
    pokemonsprites {
      sprites(path: "` + spriteArtworkPath + `")
    }
    pokemontypes {
      type {
        typenames(where: { language: { name: { _eq: $lang } } }) {
          name
        }
      }
    }
  }
  pokemon_aggregate(
    where: {
      pokemonspecy: {
        pokemonspeciesnames: { language: { name: { _eq: $lang } }, name: { _iregex: $search } }
      }
    }
  ) {
    aggregate {
      count
    }
  }
}`

const detailOperation = "GetPokemonDetails"

const detailDocument = `query GetPokemonDetails($id: Int!, $lang: String!) {
  pokemon(where: { id: { _eq: $id } }) {
    id
    pokemonspecy {
      pokemonspeciesnames(where: { language: { name: { _eq: $lang } } }) {
        name
      }
      capture_rate
    }
    pokemonsprites {
      sprites(path: "` + spriteArtworkPath + `")
    }
    pokemontypes {
      type {
        typenames(where: { language: { name: { _eq: $lang } } }) {
          name
        }
      }
    }
    weight
    height
    pokemonstats {
      base_stat
      stat {
        name
      }
    }
  }
}`
