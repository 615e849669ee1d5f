package cms

// Query tiers. The extended tier requests optional fields (tags) that
// older publication schemas reject; the basic tier omits them and is
// attempted only after the extended tier fails with a GraphQL-level
// error.

const extendedPostsQuery = `query Publication($host: String!, $first: Int!) {
  publication(host: $host) {
    posts(first: $first) {
      edges {
        node {
          id
          title
          brief
          slug
          coverImage { url }
          publishedAt
          readTimeInMinutes
          tags { name slug }
        }
      }
    }
  }
}`

const basicPostsQuery = `query Publication($host: String!, $first: Int!) {
  publication(host: $host) {
    posts(first: $first) {
      edges {
        node {
          id
          title
          brief
          slug
          coverImage { url }
          publishedAt
          readTimeInMinutes
        }
      }
    }
  }
}`

const extendedPostQuery = `query Publication($host: String!, $slug: String!) {
  publication(host: $host) {
    post(slug: $slug) {
      id
      title
      brief
      slug
      coverImage { url }
      publishedAt
      readTimeInMinutes
      content { html markdown }
      seo { description }
      tags { name slug }
    }
  }
}`

const basicPostQuery = `query Publication($host: String!, $slug: String!) {
  publication(host: $host) {
    post(slug: $slug) {
      id
      title
      brief
      slug
      coverImage { url }
      publishedAt
      readTimeInMinutes
      content { html }
    }
  }
}`
