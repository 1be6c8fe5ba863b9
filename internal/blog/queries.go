package blog

// GROQ queries issued against the content store. All caller-supplied
// values travel as named parameters ($slug), never spliced into the query
// text.
const (
	// listPostsQuery fetches the listing projection for every post, in
	// store-returned order.
	listPostsQuery = `*[_type == "post"]{
  _id,
  title,
  author->{
    name,
    image
  },
  description,
  mainImage,
  slug
}`

	// enumeratePathsQuery fetches only identity fields, used to precompute
	// the set of detail-page slugs.
	enumeratePathsQuery = `*[_type == "post"]{
  _id,
  slug{
    current
  }
}`

	// resolvePostQuery fetches a single post by slug together with its
	// approved comments, joined at query time via the post reference.
	// [0] takes the first match; slug uniqueness makes more than one match
	// a store-side anomaly rather than something to handle here.
	resolvePostQuery = `*[_type == "post" && slug.current == $slug][0]{
  _id,
  _createdAt,
  title,
  author->{
    name,
    image
  },
  "comments": *[
    _type == "comment" &&
    post._ref == ^._id &&
    approved == true],
  description,
  mainImage,
  body,
  slug
}`
)
