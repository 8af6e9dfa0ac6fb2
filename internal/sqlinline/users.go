package sqlinline

const QGetUser = `--sql d0aa0831-3986-482b-819e-b5d81b6b1458
select id, name, email, role
from users
where id = $1::uuid;
`
