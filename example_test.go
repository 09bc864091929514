package squill_test

import (
	"fmt"

	"github.com/bawdo/squill"
)

func Example() {
	posts := squill.Name("posts")
	userID := squill.Name("user_id")

	query := squill.Select(squill.TableCol(users, name), squill.TableCol(posts, squill.Name("title"))).
		From(squill.Table(users))
	query.LeftJoin(squill.Table(posts)).On(squill.TableCol(users, id).Eq(squill.TableCol(posts, userID)))
	query.Where(squill.TableCol(users, active).Eq(true))

	sql, vals, err := query.Build(squill.Postgres())
	if err != nil {
		panic(err)
	}
	fmt.Println(sql)
	fmt.Println(vals.Args())

	sql, _, _ = query.Build(squill.MySQL())
	fmt.Println(sql)
	// Output:
	// SELECT "users"."name", "posts"."title" FROM "users" LEFT JOIN "posts" ON "users"."id" = "posts"."user_id" WHERE "users"."active" = $1
	// [true]
	// SELECT `users`.`name`, `posts`.`title` FROM `users` LEFT JOIN `posts` ON `users`.`id` = `posts`.`user_id` WHERE `users`.`active` = ?
}
